package events

import (
	"encoding/json"
	"time"
)

// Action names what happened to an expense.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
)

// ExpenseEvent is the message published whenever an expense is created or
// changed. Consumers fetch the full record from the API when they need it.
type ExpenseEvent struct {
	Action     Action    `json:"action"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Cost       float64   `json:"cost"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseEvent creates an event stamped with the current time.
func NewExpenseEvent(action Action, id, name string, cost float64, date string) *ExpenseEvent {
	return &ExpenseEvent{
		Action:     action,
		ID:         id,
		Name:       name,
		Cost:       cost,
		Date:       date,
		OccurredAt: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON creates an event from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var event ExpenseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
