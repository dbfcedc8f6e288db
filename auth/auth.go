// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/danielhkuo/quickly-tally/models"
)

var ErrInvalidOperatorKey = errors.New("invalid operator key")

// normalizeEmail makes keys independent of case and surrounding space.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateOperatorKey creates an HMAC-based key for an operator email
// This is deterministic and verifiable
func GenerateOperatorKey(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(normalizeEmail(email)))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateOperatorKey checks if the provided key is valid for the email
func ValidateOperatorKey(email, key, salt string) error {
	expected := GenerateOperatorKey(email, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidOperatorKey
	}
	return nil
}

// ResolveIdentity returns the actor recorded on ledger rows. Without an
// email the placeholder identity is used and the key is ignored; with one,
// the key must match.
func ResolveIdentity(email, key, salt string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.ActorPlaceholder, nil
	}
	if err := ValidateOperatorKey(email, key, salt); err != nil {
		return "", err
	}
	return email, nil
}
