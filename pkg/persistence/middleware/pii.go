package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/ports"
)

// Mask replaces redacted text.
const Mask = "***"

type piiMiddleware struct {
	next     ports.FlashStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks text matching the
// patterns before a flash message is stored.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.FlashStore) ports.FlashStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Push(ctx context.Context, key string, f domain.Flash) error {
	for _, p := range m.patterns {
		f.Message = p.ReplaceAllString(f.Message, Mask)
	}
	return m.next.Push(ctx, key, f)
}

func (m *piiMiddleware) Drain(ctx context.Context, key string) ([]domain.Flash, error) {
	return m.next.Drain(ctx, key)
}
