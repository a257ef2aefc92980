package events

import "time"

const (
	CurationStarted   = "CURATION_STARTED"
	CurationSuspended = "CURATION_SUSPENDED"
	CurationCompleted = "CURATION_COMPLETED"
	CurationFailed    = "CURATION_FAILED"
)

// CurationTypes lists every session lifecycle event type.
var CurationTypes = []string{CurationStarted, CurationSuspended, CurationCompleted, CurationFailed}

func NewCurationEvent(eventType, sessionID, userID string, data map[string]interface{}) BaseEvent {
	payload := map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
	}
	for k, v := range data {
		payload[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}
