// Package location holds the current locality reported by the UI.
package location

import (
	"strings"
	"sync"
)

// Unknown is reported until a locality has been set.
const Unknown = "-NA-"

// Provider returns the most recent locality string.
type Provider struct {
	mu       sync.RWMutex
	current  string
	fallback string
}

// NewProvider creates a provider that reports fallback until Set is called.
// An empty fallback means Unknown.
func NewProvider(fallback string) *Provider {
	if strings.TrimSpace(fallback) == "" {
		fallback = Unknown
	}
	return &Provider{fallback: fallback}
}

// Current returns the locality, or the fallback when none is known.
func (p *Provider) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == "" {
		return p.fallback
	}
	return p.current
}

// Set replaces the locality. A blank value resets it to unknown.
func (p *Provider) Set(locality string) {
	p.mu.Lock()
	p.current = strings.TrimSpace(locality)
	p.mu.Unlock()
}
