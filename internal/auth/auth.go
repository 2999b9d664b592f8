// Package auth gates the storefront API for operators of a deployment.
// It is unrelated to the shopper login kept in the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Method names the way an operator proved who they are.
type Method string

// Authentication methods, matching the configured auth modes.
const (
	MethodNone   Method = "none"
	MethodBasic  Method = "basic"
	MethodAPIKey Method = "apikey"
	MethodMulti  Method = "multi"
)

// Identity is an authenticated operator.
type Identity struct {
	Method  Method
	Subject string
}

// Authenticator validates a request and returns the caller's identity.
type Authenticator interface {
	Authenticate(r *http.Request) (*Identity, error)
	Method() Method
}

// Sentinel errors for authentication failures.
var (
	ErrUnauthenticated    = errors.New("unauthenticated: no credentials provided")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownMode        = errors.New("unknown auth mode")
)

type contextKey struct{}

// FromContext retrieves the identity stored by WithIdentity.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}

// WithIdentity stores an identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// New builds the authenticator for an auth mode. Mode "none" (or "")
// returns a nil Authenticator, meaning the API is open.
//
// Multi mode combines whichever of the basic and API key configurations are
// set, API keys first.
func New(mode, basicUsers, apiKeys string) (Authenticator, error) {
	switch Method(mode) {
	case "", MethodNone:
		return nil, nil
	case MethodBasic:
		a, err := NewBasicAuthenticator(basicUsers)
		if err != nil {
			return nil, err
		}
		return a, nil
	case MethodAPIKey:
		a, err := NewAPIKeyAuthenticator(apiKeys)
		if err != nil {
			return nil, err
		}
		return a, nil
	case MethodMulti:
		var authenticators []Authenticator
		if apiKeys != "" {
			a, err := NewAPIKeyAuthenticator(apiKeys)
			if err != nil {
				return nil, err
			}
			authenticators = append(authenticators, a)
		}
		if basicUsers != "" {
			a, err := NewBasicAuthenticator(basicUsers)
			if err != nil {
				return nil, err
			}
			authenticators = append(authenticators, a)
		}
		if len(authenticators) == 0 {
			return nil, fmt.Errorf("multi auth: no authenticators configured")
		}
		return NewMultiAuthenticator(authenticators...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// parsePairs parses "left:right,left:right" credential lists. Only the
// first colon of an entry separates the pair. Blank entries are skipped.
func parsePairs(config, scheme string) (map[string]string, error) {
	trimmed := strings.TrimSpace(config)
	if trimmed == "" {
		return nil, fmt.Errorf("%s: config must not be empty", scheme)
	}

	pairs := make(map[string]string)
	for _, entry := range strings.Split(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		left, right, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("%s: invalid entry format, expected a colon-separated pair", scheme)
		}

		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if left == "" || right == "" {
			return nil, fmt.Errorf("%s: both sides of an entry must be set", scheme)
		}

		pairs[left] = right
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: no valid entries found", scheme)
	}

	return pairs, nil
}
