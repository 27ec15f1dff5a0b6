package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const tokenCacheTimeout = 2 * time.Second

// TokenCache stores access tokens outside the process.
type TokenCache interface {
	GetToken(ctx context.Context, key string) (*oauth2.Token, error)
	SetToken(ctx context.Context, key string, tok *oauth2.Token) error
}

// tokenProvider hands out client-credentials tokens using the caller's
// context, so a slow token endpoint honors cancellation. The shared cache is
// consulted before the token endpoint; its errors are logged and never fail
// the request.
type tokenProvider struct {
	cc         clientcredentials.Config
	httpClient *http.Client
	cache      TokenCache
	key        string
	logger     *zap.Logger

	mu  sync.Mutex
	tok *oauth2.Token
}

func (p *tokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	tok := p.tok
	p.mu.Unlock()
	if tok.Valid() {
		return tok, nil
	}

	if p.cache != nil {
		if tok := p.fromCache(ctx); tok.Valid() {
			p.store(tok)
			return tok, nil
		}
	}

	tok, err := p.cc.Token(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient))
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}
	p.store(tok)

	if p.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, tokenCacheTimeout)
		defer cancel()
		if err := p.cache.SetToken(cacheCtx, p.key, tok); err != nil {
			p.logger.Warn("token cache write failed", zap.Error(err))
		}
	}
	return tok, nil
}

// Invalidate drops the in-process token after the API rejected it.
func (p *tokenProvider) Invalidate(rejected *oauth2.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tok == rejected {
		p.tok = nil
	}
}

func (p *tokenProvider) fromCache(ctx context.Context) *oauth2.Token {
	cacheCtx, cancel := context.WithTimeout(ctx, tokenCacheTimeout)
	defer cancel()

	tok, err := p.cache.GetToken(cacheCtx, p.key)
	if err != nil {
		p.logger.Warn("token cache read failed", zap.Error(err))
		return nil
	}
	return tok
}

func (p *tokenProvider) store(tok *oauth2.Token) {
	p.mu.Lock()
	p.tok = tok
	p.mu.Unlock()
}
