// Package api implements the HTTP REST API for Gray Logic Accounts.
//
// This package provides:
//   - Public endpoints for registration, email verification and login
//   - Self-service profile endpoints limited to the account owner or an admin
//   - Administrative listing, reporting, audit and metrics endpoints
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - Bearer token authentication and an administrator gate
//
// # Lifecycle
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Errors
//
// Every failure is answered with a flat JSON body:
//
//	{"status": 400, "code": "validation_error", "message": "invalid input", "fields": {"email": "must be a valid email address"}}
//
// Service errors are classified in one place (writeServiceError). Internal
// failures are logged and answered with a generic message.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. When they are down the account endpoints
// keep working and /health reports "degraded".
package api
