package proto

import (
	"encoding/json"
	"testing"
)

func TestPreviousMessagesEncodesEmptyListAsArray(t *testing.T) {
	raw, err := json.Marshal(Outbound{Event: EventPreviousMessages, Data: []Message{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(raw), `{"event":"previous_messages","data":[]}`; got != want {
		t.Fatalf("encoded = %s, want %s", got, want)
	}
}

func TestMessageKeepsEmptyAvatar(t *testing.T) {
	raw, err := json.Marshal(Message{ID: 1, Seq: 1, User: "Anonymous", Text: "hi", Timestamp: "10:00"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := decoded["avatar"]; !ok || v != "" {
		t.Fatalf("avatar should be present and empty, got %v (present=%v)", v, ok)
	}
}
