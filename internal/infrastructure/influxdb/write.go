package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names written by the accounts service.
const (
	MeasurementLogin   = "account_login"
	MeasurementAccount = "account_event"
)

// WriteLogin records one authentication attempt.
//
// The outcome is a tag (low cardinality: success, invalid_credentials,
// unverified, error); the account ID is a field so it does not explode
// series cardinality. An empty accountID is written for unknown emails.
//
// Example:
//
//	client.WriteLogin("usr-1", "success")
func (c *Client) WriteLogin(accountID, outcome string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		MeasurementLogin,
		map[string]string{
			"outcome": outcome,
		},
		map[string]any{
			"count":      1,
			"account_id": accountID,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAccountEvent records a lifecycle event (registered, verified,
// updated, deleted) for dashboards counting sign-ups and churn.
func (c *Client) WriteAccountEvent(event, accountID string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		MeasurementAccount,
		map[string]string{
			"event": event,
		},
		map[string]any{
			"count":      1,
			"account_id": accountID,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
