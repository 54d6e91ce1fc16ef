package room

import (
	"time"
)

const eventLimit = 25

// Event is a change that was applied to the session
type Event struct {
	Version int64     `json:"version"`
	Action  string    `json:"action"`
	At      time.Time `json:"at"`
}

// addEvent records a change, keeping only the most recent events
// NOTE: must only be called from within the run loop
func (t *Table) addEvent(action string) {
	events := append(t.events, Event{
		Version: t.version,
		Action:  action,
		At:      t.clock.Now(),
	})

	if count := len(events); count > eventLimit {
		events = events[count-eventLimit:]
	}

	t.events = events
}
