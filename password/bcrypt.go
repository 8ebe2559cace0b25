package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost = bcrypt.MinCost
	// bcrypt silently truncates beyond 72 bytes; reject instead.
	maxPasswordBytes = 72
)

// Config holds the bcrypt work factor.
type Config struct {
	Cost int
}

// Hasher produces and verifies salted bcrypt digests. A Hasher is immutable
// after construction and safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher validates the configured cost and returns a Hasher. Costs below
// bcrypt.MinCost or above bcrypt.MaxCost are rejected at construction so a
// misconfigured work factor is a startup failure, not a per-request one.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Cost < minCost || cfg.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be in [%d, %d]", minCost, bcrypt.MaxCost)
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a salted digest from plaintext. The salt is generated fresh on
// every call, so repeated hashing of the same input never produces equal
// digests. An error indicates an RNG or algorithm failure, never a policy
// decision.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("empty password")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.config.Cost)
	if err != nil {
		return "", err
	}
	if len(digest) == 0 {
		return "", errors.New("empty digest from bcrypt")
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A non-matching password
// returns (false, nil); an error means the digest itself is malformed. The
// underlying comparison is constant-time with respect to the derived key.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// NeedsRehash reports whether the digest was produced with a lower cost than
// currently configured, so callers can transparently upgrade on the next
// successful login.
func (h *Hasher) NeedsRehash(digest string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return false, err
	}
	return cost < h.config.Cost, nil
}
