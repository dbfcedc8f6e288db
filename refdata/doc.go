// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package refdata loads the precinct reference list and indexes it by id.
// The list is read once at startup and never changes afterwards.
package refdata
