// Package policy decides which read endpoints require a verified session.
// The policy lives in a small YAML file that is re-read whenever it changes:
//
//	require_session:
//	  todo.list: true
//	  booking.list: false
//
// Endpoints not named in the file require a session.
package policy

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"git.sr.ht/~jakintosh/tally/internal/metrics"
	"gopkg.in/yaml.v3"
)

// Endpoint names understood by the policy file.
const (
	TodoList    = "todo.list"
	BookingList = "booking.list"
)

type document struct {
	RequireSession map[string]bool `yaml:"require_session"`
}

// Policy is the current endpoint gating. The zero value gates everything.
type Policy struct {
	path    string
	metrics *metrics.Metrics

	mu             sync.RWMutex
	requireSession map[string]bool
}

// Default returns a policy that requires a session everywhere and is not
// backed by a file.
func Default() *Policy {
	return &Policy{}
}

// Load reads the policy at path. An empty path yields Default.
func Load(path string, m *metrics.Metrics) (*Policy, error) {
	p := &Policy{path: path, metrics: m}
	if path == "" {
		return p, nil
	}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// RequiresSession reports whether endpoint must verify and rotate the
// caller's session.
func (p *Policy) RequiresSession(endpoint string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	required, ok := p.requireSession[endpoint]
	if !ok {
		return true
	}
	return required
}

func (p *Policy) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read policy file: %v", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse policy file: %v", err)
	}
	for name := range doc.RequireSession {
		if name != TodoList && name != BookingList {
			return fmt.Errorf("unknown endpoint %q in policy file", name)
		}
	}

	p.mu.Lock()
	p.requireSession = doc.RequireSession
	p.mu.Unlock()
	return nil
}

// handleReload is the watcher callback. A bad file keeps the last good
// policy in place.
func (p *Policy) handleReload() {
	if err := p.reload(); err != nil {
		slog.Error("policy reload failed", "path", p.path, "err", err)
		p.metrics.RecordPolicyReload(false)
		return
	}
	slog.Info("policy reloaded", "path", p.path)
	p.metrics.RecordPolicyReload(true)
}
