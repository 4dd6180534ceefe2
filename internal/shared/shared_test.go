package shared

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("expected unique IDs")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected UUID format, got %s", a)
	}
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}

	if a == b {
		t.Error("expected unique state tokens")
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Errorf("expected hex-encoded state, got %s", a)
	}
	if len(a) != 32 {
		t.Errorf("expected 16 random bytes hex-encoded, got length %d", len(a))
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"count": 3}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if !strings.Contains(string(pretty), "\"count\": 3") {
		t.Errorf("expected indented JSON, got %s", pretty)
	}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(compact) != `{"count":3}` {
		t.Errorf("expected compact JSON, got %s", compact)
	}
}
