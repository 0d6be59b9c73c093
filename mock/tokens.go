package mock

import (
	"context"

	"github.com/fwojciec/reel"
)

// Interface compliance check.
var _ reel.TokenStore = (*TokenStore)(nil)

// TokenStore is a test double for reel.TokenStore.
type TokenStore struct {
	AccessTokenFn  func(ctx context.Context) (string, error)
	RefreshTokenFn func(ctx context.Context) (string, error)
	SetTokensFn    func(ctx context.Context, t reel.Tokens) error
	ClearFn        func(ctx context.Context) error
}

// AccessToken delegates to AccessTokenFn.
func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	return s.AccessTokenFn(ctx)
}

// RefreshToken delegates to RefreshTokenFn.
func (s *TokenStore) RefreshToken(ctx context.Context) (string, error) {
	return s.RefreshTokenFn(ctx)
}

// SetTokens delegates to SetTokensFn.
func (s *TokenStore) SetTokens(ctx context.Context, t reel.Tokens) error {
	return s.SetTokensFn(ctx, t)
}

// Clear delegates to ClearFn.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.ClearFn(ctx)
}
