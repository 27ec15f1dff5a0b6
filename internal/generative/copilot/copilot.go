// Package copilot is a generative backend that runs a Copilot SDK session
// and captures the answer through a submit tool.
package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	sdk "github.com/github/copilot-sdk/go"
	"github.com/google/jsonschema-go/jsonschema"
)

const submitToolName = "submit_result"

var errNoSubmission = errors.New("session went idle without submitting a result")

// SubmitParams is the argument of the submit tool.
type SubmitParams struct {
	ResultJSON string `json:"resultJson" jsonschema:"The complete answer encoded as a JSON string matching the required schema"`
}

type Backend struct {
	client *sdk.Client
	model  string
}

func NewBackend(client *sdk.Client, model string) *Backend {
	return &Backend{client: client, model: model}
}

func (b *Backend) GenerateStructured(ctx context.Context, prompt string, schema *jsonschema.Schema) ([]byte, error) {
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	capture := newCapture()
	session, err := b.client.CreateSession(&sdk.SessionConfig{
		Model: b.model,
		Tools: []sdk.Tool{capture.tool()},
		SystemMessage: &sdk.SystemMessageConfig{
			Mode:    "replace",
			Content: buildSystemMessage(string(schemaJSON)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Destroy()

	session.On(capture.handleEvent)

	go func() {
		if _, err := session.Send(sdk.MessageOptions{Prompt: prompt}); err != nil {
			capture.fail(fmt.Errorf("failed to send message: %w", err))
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-capture.errCh:
		return nil, err
	case <-capture.submitted:
		return capture.result()
	case <-capture.idle:
		return capture.result()
	}
}

// capture collects the submit tool call and session lifecycle events.
type capture struct {
	mu        sync.Mutex
	payload   []byte
	submitted chan struct{}
	idle      chan struct{}
	errCh     chan error
	submitOne sync.Once
	idleOnce  sync.Once
}

func newCapture() *capture {
	return &capture{
		submitted: make(chan struct{}),
		idle:      make(chan struct{}),
		errCh:     make(chan error, 1),
	}
}

func (c *capture) tool() sdk.Tool {
	return sdk.DefineTool(submitToolName, "Submit the final structured answer",
		func(params SubmitParams, inv sdk.ToolInvocation) (any, error) {
			return c.submit(params)
		})
}

func (c *capture) submit(params SubmitParams) (any, error) {
	if !json.Valid([]byte(params.ResultJSON)) {
		return nil, errors.New("resultJson is not valid JSON")
	}
	c.mu.Lock()
	c.payload = []byte(params.ResultJSON)
	c.mu.Unlock()
	c.submitOne.Do(func() { close(c.submitted) })
	return map[string]string{"status": "received"}, nil
}

func (c *capture) handleEvent(event sdk.SessionEvent) {
	c.onEvent(string(event.Type), event.Data.Content)
}

func (c *capture) onEvent(eventType string, content *string) {
	switch eventType {
	case "session.idle":
		c.idleOnce.Do(func() { close(c.idle) })
	case "session.error":
		msg := "session error"
		if content != nil {
			msg = *content
		}
		c.fail(errors.New(msg))
	}
}

// fail keeps the first error only.
func (c *capture) fail(err error) {
	select {
	case c.errCh <- err:
	default:
	}
}

func (c *capture) result() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil {
		return nil, errNoSubmission
	}
	return c.payload, nil
}

func buildSystemMessage(schemaJSON string) string {
	return fmt.Sprintf(`You generate realistic travel data.

Answer the user's request by calling the %s tool exactly once.
Put the whole answer in resultJson as a JSON string that validates against this JSON Schema:

%s

Do not reply with plain text. Do not add fields that the schema does not declare.`, submitToolName, schemaJSON)
}
