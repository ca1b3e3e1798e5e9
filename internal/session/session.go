// Package session stores the bearer credential issued by the auth service
// and exposes it to the task client as an oauth2.TokenSource.
//
// The credential is opaque: it is never refreshed or inspected beyond its
// optional expiry.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"taskscribe/internal/config"
)

var (
	// ErrNoSession means no credential has been stored.
	ErrNoSession = errors.New("not logged in")

	// ErrExpired means the stored credential is past its expiry.
	ErrExpired = errors.New("session expired")
)

// NewToken builds a bearer token from a raw access token string.
func NewToken(accessToken string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: strings.TrimSpace(accessToken),
		TokenType:   "Bearer",
	}
}

// Load reads a token from path.
func Load(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &tok, nil
}

// Save writes a token to path with mode 0600.
func Save(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// NewTokenSource returns the credential source for cfg. An environment
// token wins; otherwise the session file is read on first use.
func NewTokenSource(cfg *config.Config) oauth2.TokenSource {
	if cfg.Token != "" {
		return oauth2.StaticTokenSource(NewToken(cfg.Token))
	}
	return &fileSource{path: cfg.SessionPath(), now: time.Now}
}

type fileSource struct {
	path string
	now  func() time.Time
}

func (s *fileSource) Token() (*oauth2.Token, error) {
	tok, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	if !tok.Expiry.IsZero() && !tok.Expiry.After(s.now()) {
		return nil, ErrExpired
	}
	return tok, nil
}
