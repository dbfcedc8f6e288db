// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tally console API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(sess, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Overview:

	GET /departments
	GET /precincts?department=&status=&q=
	GET /precincts/stats
	GET /precincts/{id}

Entry:

	PUT    /precincts/{id}/tables/{table}/votes/{party}
	POST   /precincts/{id}/tables/{table}/photos
	DELETE /precincts/{id}/tables/{table}/photos/{pos}

Ledger (save requires X-Operator-Email and X-Operator-Key when an operator
is named):

	POST /precincts/{id}/save
	POST /ledger/reload

Candidates:

	POST /candidates/reload
	GET  /candidates/{municipality}

Every API route is wrapped in middleware.WithLogging.
*/
package router
