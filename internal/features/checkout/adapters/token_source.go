package adapters

import "context"

// StaticTokenSource hands out a fixed bearer token. An empty token means signed out.
type StaticTokenSource string

// Token returns the token.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}
