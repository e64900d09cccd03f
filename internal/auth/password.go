// Package auth provides the password hashing strategies. Which one is used is
// a configuration choice (PASSWORD_HASHER), never a runtime probe.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("auth: invalid password")

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}

// NewHasher selects a strategy by name: "bcrypt" (default) or "sha256".
// cost is only used by bcrypt; values outside bcrypt's range fall back to
// bcrypt.DefaultCost.
func NewHasher(name string, cost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bcrypt":
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		return &BcryptHasher{Cost: cost}, nil
	case "sha256":
		return SHA256Hasher{}, nil
	}
	return nil, fmt.Errorf("auth: unknown password hasher %q", name)
}

/* ─── bcrypt ─────────────────────────────────────────────────────────── */

// BcryptHasher is the default strategy.
type BcryptHasher struct {
	Cost int
}

// Hash rejects passwords over 72 bytes, which bcrypt would silently truncate.
func (b *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.Cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

func (b *BcryptHasher) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

/* ─── sha256 ─────────────────────────────────────────────────────────── */

// SHA256HasherPrefix marks hashes written by SHA256Hasher.
const SHA256HasherPrefix = "sha256$"

// SHA256Hasher is the weak, unsalted strategy kept for deployments that
// cannot afford bcrypt. Hashes are "sha256$<hex digest>".
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return SHA256HasherPrefix + hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(hash, plaintext string) error {
	want, _ := h.Hash(plaintext)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(want)) != 1 {
		return ErrMismatch
	}
	return nil
}
