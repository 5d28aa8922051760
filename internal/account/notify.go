package account

import (
	"errors"
	"time"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/mqtt"
)

// Account lifecycle events.
const (
	EventRegistered = mqtt.EventRegistered
	EventVerified   = mqtt.EventVerified
	EventLogin      = mqtt.EventLogin
	EventUpdated    = mqtt.EventUpdated
	EventDeleted    = mqtt.EventDeleted
)

// EventPublisher sends lifecycle events to the message bus.
// *mqtt.Client satisfies it.
type EventPublisher interface {
	PublishJSON(topic string, v any) error
}

// ActivityRecorder writes login and lifecycle metrics.
// *influxdb.Client satisfies it.
type ActivityRecorder interface {
	WriteLogin(accountID, outcome string)
	WriteAccountEvent(event, accountID string)
}

// Auditor queues audit trail entries. *audit.Recorder satisfies it.
type Auditor interface {
	Record(action, entityID, actorID string, details map[string]any)
}

// Event is the JSON payload published for each lifecycle event.
type Event struct {
	Event     string    `json:"event"`
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
}

// emit publishes event for accountID and counts it. Failures are logged and
// never fail the operation that triggered them.
func (s *Service) emit(event, accountID string) {
	s.metrics.WriteAccountEvent(event, accountID)

	payload := Event{Event: event, AccountID: accountID, Timestamp: s.now().UTC()}
	if err := s.events.PublishJSON(mqtt.Topics{}.AccountEvent(event), payload); err != nil {
		if errors.Is(err, mqtt.ErrNotConnected) {
			s.logger.Debug("mqtt not connected, event not published", "event", event)
			return
		}
		s.logger.Warn("publishing account event failed", "event", event, "account_id", accountID, "error", err)
	}
}

type nopPublisher struct{}

func (nopPublisher) PublishJSON(string, any) error { return nil }

type nopRecorder struct{}

func (nopRecorder) WriteLogin(string, string)        {}
func (nopRecorder) WriteAccountEvent(string, string) {}

type nopAuditor struct{}

func (nopAuditor) Record(string, string, string, map[string]any) {}
