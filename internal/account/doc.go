// Package account implements the account use cases: registration,
// verification, authentication, self-service profile changes and the
// administrative listing and reports.
//
// Service composes the auth core (hasher, token service, repository) and
// fans successful mutations out to the audit trail, the MQTT event bus and
// InfluxDB. Those side channels are best-effort; their failures are logged
// and never fail the request.
package account
