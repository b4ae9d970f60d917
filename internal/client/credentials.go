package client

import (
	"context"
	"strings"
)

// CredentialSource supplies the bearer token attached to every request.
// An empty token means no Authorization header is sent.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically read from configuration.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(t)), nil
}
