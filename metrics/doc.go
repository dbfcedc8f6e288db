// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics declares the Prometheus counters for saves, ledger writes,
// reconciliation and operator edits, and serves them at /metrics.
package metrics
