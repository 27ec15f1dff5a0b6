package generative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GenerateStructured(ctx context.Context, prompt string, schema *jsonschema.Schema) ([]byte, error) {
	args := m.Called(ctx, prompt, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return []byte(args.String(0)), args.Error(1)
}

func seatSpec(t *testing.T, b Bounds) *OutputSpec {
	t.Helper()
	spec, err := ArraySpecFor[domain.SeatOption](b, func(s *jsonschema.Schema) error {
		price, err := Property(s, "priceInUSD")
		if err != nil {
			return err
		}
		price.Minimum = Ptr(0.0)
		price.ExclusiveMaximum = Ptr(domain.MaxSeatPriceUSD)
		return nil
	})
	require.NoError(t, err)
	return spec
}

func quoteSpec(t *testing.T) *OutputSpec {
	t.Helper()
	spec, err := ObjectSpecFor[domain.ReservationPriceQuote](nil)
	require.NoError(t, err)
	return spec
}

func seatsJSON(n int, price float64) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"seatNumber":"%d%c","priceInUSD":%v,"isAvailable":%t}`, i/6+1, 'A'+rune(i%6), price, i%2 == 0)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestEngine_ObjectValid(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	spec := quoteSpec(t)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, "price it", spec.Schema()).Return(`{"totalPriceInUSD": 412.5}`, nil).Once()

	quote, err := Object[domain.ReservationPriceQuote](ctx, engine, "price it", spec)

	require.NoError(t, err)
	assert.Equal(t, 412.5, quote.TotalPriceInUSD)
	backend.AssertExpectations(t)
}

func TestEngine_ObjectMissingRequiredField(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	spec := quoteSpec(t)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(`{"price": 10}`, nil).Once()

	_, err := Object[domain.ReservationPriceQuote](ctx, engine, "price it", spec)

	assert.ErrorIs(t, err, domain.ErrSchemaValidationFailed)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, CardinalityObject, ve.Cardinality)
}

func TestEngine_ObjectWrongType(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(`{"totalPriceInUSD": "cheap"}`, nil).Once()

	_, err := Object[domain.ReservationPriceQuote](ctx, engine, "price it", quoteSpec(t))

	assert.ErrorIs(t, err, domain.ErrSchemaValidationFailed)
}

func TestEngine_UndecodableOutput(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(`Sure! Here is your price: $400`, nil).Once()

	_, err := Object[domain.ReservationPriceQuote](ctx, engine, "price it", quoteSpec(t))

	assert.ErrorIs(t, err, domain.ErrSchemaValidationFailed)
}

func TestEngine_BackendErrorIsValidationFailure(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()
	backendErr := errors.New("quota exceeded")

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(nil, backendErr).Once()

	_, err := Object[domain.ReservationPriceQuote](ctx, engine, "price it", quoteSpec(t))

	assert.ErrorIs(t, err, domain.ErrSchemaValidationFailed)
	assert.ErrorIs(t, err, backendErr)
}

func TestEngine_CanceledContextPropagates(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(nil, context.Canceled).Once()

	_, err := Object[domain.ReservationPriceQuote](ctx, engine, "price it", quoteSpec(t))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrSchemaValidationFailed))
}

func TestEngine_ArrayExact(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	spec := seatSpec(t, Bounds{MinItems: 30, MaxItems: 30})
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, spec.Schema()).Return(seatsJSON(30, 45), nil).Once()

	seats, err := Array[domain.SeatOption](ctx, engine, "seats", spec)

	require.NoError(t, err)
	assert.Len(t, seats, 30)
	assert.Equal(t, "1A", seats[0].SeatNumber)
	assert.Equal(t, "5F", seats[29].SeatNumber)
}

func TestEngine_ArrayTruncatedToMax(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(seatsJSON(36, 45), nil).Once()

	seats, err := Array[domain.SeatOption](ctx, engine, "seats", seatSpec(t, Bounds{MinItems: 30, MaxItems: 30}))

	require.NoError(t, err)
	assert.Len(t, seats, 30)
}

func TestEngine_ArrayTooShort(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(seatsJSON(12, 45), nil).Once()

	_, err := Array[domain.SeatOption](ctx, engine, "seats", seatSpec(t, Bounds{MinItems: 30, MaxItems: 30}))

	assert.ErrorIs(t, err, domain.ErrSchemaValidationFailed)
}

func TestEngine_ArrayValueConstraint(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(seatsJSON(30, 99), nil).Once()

	_, err := Array[domain.SeatOption](ctx, engine, "seats", seatSpec(t, Bounds{MinItems: 30, MaxItems: 30}))

	assert.ErrorIs(t, err, domain.ErrSchemaValidationFailed)
}

func TestEngine_ArrayUnwrapsSingleKeyObject(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(`{"seats":`+seatsJSON(30, 10)+`}`, nil).Once()

	seats, err := Array[domain.SeatOption](ctx, engine, "seats", seatSpec(t, Bounds{MinItems: 30, MaxItems: 30}))

	require.NoError(t, err)
	assert.Len(t, seats, 30)
}

func TestEngine_PrunesUndeclaredProperties(t *testing.T) {
	backend := &MockBackend{}
	engine := NewEngine(backend, nil)
	ctx := context.Background()

	backend.On("GenerateStructured", ctx, mock.Anything, mock.Anything).Return(`{"totalPriceInUSD": 99.5, "currency": "USD"}`, nil).Once()

	raw, err := engine.Generate(ctx, "price it", quoteSpec(t))

	require.NoError(t, err)
	assert.JSONEq(t, `{"totalPriceInUSD": 99.5}`, string(raw))
}

func TestObject_RejectsArraySpec(t *testing.T) {
	engine := NewEngine(&MockBackend{}, nil)

	_, err := Object[domain.SeatOption](context.Background(), engine, "seats", seatSpec(t, Bounds{MaxItems: 4}))

	assert.Error(t, err)
}

func TestNewArraySpec_InvalidBounds(t *testing.T) {
	_, err := NewArraySpec(&jsonschema.Schema{Type: "string"}, Bounds{MinItems: 5, MaxItems: 4})
	assert.Error(t, err)
}

func TestProperty_Missing(t *testing.T) {
	s, err := SchemaFor[domain.FlightStatus](nil)
	require.NoError(t, err)

	p, err := Property(s, "departure", "gate")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = Property(s, "departure", "runway")
	assert.Error(t, err)
}
