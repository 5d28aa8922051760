// Package influxdb provides InfluxDB connectivity for Gray Logic Accounts.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, batched metric writing and health monitoring.
//
// # Purpose
//
// This package records account activity as time series:
//   - account_login: every authentication attempt, tagged by outcome
//   - account_event: registrations, verifications, updates and deletions
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteLogin("usr-1", "success")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered to the
// callback registered with SetOnError. Connection and health check errors
// are returned directly.
package influxdb
