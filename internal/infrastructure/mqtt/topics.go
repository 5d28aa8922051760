package mqtt

import "fmt"

// Topic prefixes for the accounts service.
const (
	// TopicPrefix is the base for every Gray Logic topic.
	TopicPrefix = "graylogic"

	// TopicPrefixAccounts is the base for all accounts service topics.
	TopicPrefixAccounts = "graylogic/accounts"
)

// Account event types published after successful mutations.
const (
	EventRegistered = "registered"
	EventVerified   = "verified"
	EventLogin      = "login"
	EventUpdated    = "updated"
	EventDeleted    = "deleted"
)

// Topics provides builders for accounts service MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.AccountEvent(mqtt.EventRegistered)
//	// Returns: "graylogic/accounts/event/registered"
type Topics struct{}

// ServiceStatus returns the retained online/offline status topic.
//
// Example: graylogic/accounts/status
func (Topics) ServiceStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixAccounts)
}

// AccountEvent returns the topic for an account lifecycle event.
//
// Example: graylogic/accounts/event/login
func (Topics) AccountEvent(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixAccounts, eventType)
}

// AllAccountEvents returns a wildcard matching every account event.
//
// Example: graylogic/accounts/event/+
func (Topics) AllAccountEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefixAccounts)
}
