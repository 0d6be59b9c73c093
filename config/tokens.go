package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/reel"
	"gopkg.in/yaml.v3"
)

// Interface compliance check.
var _ reel.TokenStore = (*TokenFile)(nil)

// TokenFile persists the backend token pair in a YAML file readable only
// by the current user.
type TokenFile struct {
	path string
	mu   sync.Mutex
}

type tokenDoc struct {
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

// NewTokenFile returns a TokenFile stored at path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// AccessToken returns the stored access token, or "" when signed out.
func (f *TokenFile) AccessToken(context.Context) (string, error) {
	doc, err := f.read()
	return doc.AccessToken, err
}

// RefreshToken returns the stored refresh token, or "" when signed out.
func (f *TokenFile) RefreshToken(context.Context) (string, error) {
	doc, err := f.read()
	return doc.RefreshToken, err
}

// SetTokens replaces the stored pair.
func (f *TokenFile) SetTokens(_ context.Context, t reel.Tokens) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("config: creating token directory: %w", err)
	}
	data, err := yaml.Marshal(tokenDoc{AccessToken: t.Access, RefreshToken: t.Refresh})
	if err != nil {
		return fmt.Errorf("config: marshalling tokens: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("config: writing tokens: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("config: writing tokens: %w", err)
	}
	return nil
}

// Clear deletes the stored pair.
func (f *TokenFile) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: removing tokens: %w", err)
	}
	return nil
}

func (f *TokenFile) read() (tokenDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var doc tokenDoc
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("config: reading tokens: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("config: parsing tokens: %w", err)
	}
	return doc, nil
}
