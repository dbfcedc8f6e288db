// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves the operator identity written to ledger rows.

# Operator Keys

Operator keys use HMAC-SHA256 over the lower-cased email to create
deterministic, verifiable keys:

	key := auth.GenerateOperatorKey(email, salt)
	err := auth.ValidateOperatorKey(email, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
an administrator can hand a key to each operator without storing anything.

# Identity

	actor, err := auth.ResolveIdentity(email, key, salt)

An empty email resolves to the placeholder identity "Sistema Web". A
non-empty email with a wrong key returns ErrInvalidOperatorKey.
*/
package auth
