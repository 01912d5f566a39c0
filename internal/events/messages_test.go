package events

import (
	"testing"
	"time"
)

func TestExpenseEventRoundTrip(t *testing.T) {
	event := NewExpenseEvent(ActionAdded, "exp-1", "Lunch", 12.5, "2024-03-15")

	if event.OccurredAt.IsZero() {
		t.Error("expected occurred_at to be stamped")
	}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := ExpenseEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Action != ActionAdded {
		t.Errorf("expected action %q, got %q", ActionAdded, decoded.Action)
	}
	if decoded.ID != "exp-1" || decoded.Name != "Lunch" || decoded.Cost != 12.5 {
		t.Errorf("unexpected payload: %+v", decoded)
	}
	if decoded.Date != "2024-03-15" {
		t.Errorf("expected date 2024-03-15, got %s", decoded.Date)
	}
	if !decoded.OccurredAt.Truncate(time.Second).Equal(event.OccurredAt.Truncate(time.Second)) {
		t.Errorf("timestamp drifted: %s vs %s", decoded.OccurredAt, event.OccurredAt)
	}
}

func TestExpenseEventFromJSON_Invalid(t *testing.T) {
	if _, err := ExpenseEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected an error for malformed input")
	}
}
