// Package password hashes and verifies login credentials with bcrypt.
package password

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest plaintext, in bytes, that bcrypt accepts.
const MaxLength = 72

// Mode controls bcrypt cost for password hashing.
// Use ModeProduction for real deployments and ModeTesting only in tests.
type Mode int

const (
	// ModeProduction uses bcrypt.DefaultCost (10).
	ModeProduction Mode = iota
	// ModeTesting uses bcrypt.MinCost (4) for fast test execution.
	// WARNING: This mode will panic if used outside of go test.
	ModeTesting
)

// Cost returns the bcrypt cost for this mode.
func (m Mode) Cost() int {
	switch m {
	case ModeTesting:
		if !testing.Testing() {
			panic("password: ModeTesting used outside of test environment")
		}
		return bcrypt.MinCost
	default:
		return bcrypt.DefaultCost
	}
}

// Hasher turns plaintext passwords into salted digests and checks them.
// The zero value hashes at production cost.
type Hasher struct {
	mode Mode

	dummyOnce sync.Once
	dummy     []byte
}

func NewHasher(mode Mode) *Hasher {
	if mode == ModeTesting {
		slog.Warn("using insecure password hashing (testing mode)")
	}
	return &Hasher{mode: mode}
}

// Hash returns a bcrypt digest of plaintext. Two calls with the same input
// yield different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.mode.Cost())
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is
// simply a mismatch.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyMissing burns one comparison against a throwaway digest of the same
// cost, so a login for an unknown subject takes as long as a wrong password.
// It always returns false.
func (h *Hasher) VerifyMissing(plaintext string) bool {
	h.dummyOnce.Do(func() {
		digest, err := bcrypt.GenerateFromPassword([]byte("tally-missing-subject"), h.mode.Cost())
		if err != nil {
			slog.Error("failed to build dummy digest", "err", err)
			return
		}
		h.dummy = digest
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
	return false
}
