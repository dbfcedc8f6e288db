// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session ties the reference index, candidate directory, tally store and
ledger into one operator session.

Nothing here is global: main builds a Session and hands it to the router.
Every method takes the session lock, so HTTP handlers can call it from any
goroutine while the underlying store stays single-writer.

Lifecycle:

 1. ReloadCandidates fills the directory. An empty source leaves every
    municipality on the fallback ballot.
 2. Load rebuilds the store from the ledger.
 3. RecordVote, AddPhoto and RemovePhoto edit one table at a time.
 4. Save appends the precinct as one ledger batch.
*/
package session
