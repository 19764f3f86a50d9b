package token

import (
	"strings"

	"github.com/google/uuid"
)

// The five predefined owner tokens. There is no other identity in the
// system; each token owns an isolated usage history.
var predefinedTokens = []string{
	"EYEWEAR21",
	"VISION48X",
	"OPTICS92Z",
	"LENSES73Y",
	"GLASSES05",
}

// Registry validates owner tokens against the fixed allow-list.
type Registry struct {
	tokens map[string]struct{}
}

func NewRegistry() *Registry {
	tokens := make(map[string]struct{}, len(predefinedTokens))
	for _, t := range predefinedTokens {
		tokens[t] = struct{}{}
	}
	return &Registry{tokens: tokens}
}

// IsValid reports whether the token is an exact, case-sensitive member of
// the allow-list. Empty or malformed input is rejected.
func (r *Registry) IsValid(token string) bool {
	_, ok := r.tokens[token]
	return ok
}

// List returns a copy of the allow-list in its canonical order.
func (r *Registry) List() []string {
	out := make([]string, len(predefinedTokens))
	copy(out, predefinedTokens)
	return out
}

// Generate produces an 8-character uppercase token. Generated tokens are not
// part of the allow-list; this exists for compatibility with older clients.
func Generate() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
