// Package mqtt provides MQTT client connectivity for Gray Logic Accounts.
//
// This package manages:
//   - Connection to the Mosquitto broker with auto-reconnect
//   - Publishing account lifecycle events with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Other Gray Logic services learn about account changes from the bus
// instead of polling the accounts API:
//
//	Accounts service → MQTT Broker → subscribers (graylogic/accounts/event/+)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Event payloads carry account IDs and event metadata only, never
//     credentials or tokens
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if errors.Is(err, mqtt.ErrDisabled) {
//	    // run without events
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.AccountEvent(mqtt.EventRegistered)
//	client.PublishJSON(topic, map[string]any{"account_id": id})
package mqtt
