package policies

import (
	"encoding/json"
	"os"
	"path"
	"testing"
)

func TestQTableGetDefault(t *testing.T) {
	q := NewQTable()
	if v := q.Get("s", "a", 0.5); v != 0.5 {
		t.Errorf("Expected default 0.5, got %f", v)
	}
	// the default is stored on first access
	if v := q.Get("s", "a", 9); v != 0.5 {
		t.Errorf("Expected stored 0.5, got %f", v)
	}
}

func TestQTableSetOverwrites(t *testing.T) {
	q := NewQTable()
	q.Set("s", "a", 1)
	q.Set("s", "a", 2)
	if v := q.Get("s", "a", 0); v != 2 {
		t.Errorf("Expected 2 after second Set, got %f", v)
	}
}

func TestQTableMax(t *testing.T) {
	q := NewQTable()
	q.Set("s", "0", 1)
	q.Set("s", "1", 3)
	q.Set("s", "2", 2)

	a, v := q.Max("s", 0)
	if a != "1" {
		t.Errorf("Expected action 1, got %s", a)
	}
	if v != 3 {
		t.Errorf("Expected value 3, got %f", v)
	}

	a, v = q.Max("unseen", -1)
	if a != "" || v != -1 {
		t.Errorf("Expected default for unseen state, got %s:%f", a, v)
	}
}

func TestQTableMaxAmong(t *testing.T) {
	q := NewQTable()
	q.Set("s", "0", 5)
	q.Set("s", "1", 1)

	// only the listed actions compete
	a, v := q.MaxAmong("s", []string{"1", "2"}, 0)
	if a != "1" {
		t.Errorf("Expected action 1, got %s", a)
	}
	if v != 1 {
		t.Errorf("Expected value 1, got %f", v)
	}

	// an unseen state still yields an action, seeded with the default
	a, v = q.MaxAmong("fresh", []string{"0", "1"}, 0)
	if a != "0" {
		t.Errorf("Expected first action, got %s", a)
	}
	if v != 0 {
		t.Errorf("Expected default value, got %f", v)
	}
}

func TestQTableStates(t *testing.T) {
	q := NewQTable()
	if q.States() != 0 {
		t.Errorf("Expected empty table, got %d states", q.States())
	}
	q.Set("a", "0", 1)
	q.Set("b", "0", 1)
	q.Set("a", "1", 2)
	if q.States() != 2 {
		t.Errorf("Expected 2 states, got %d", q.States())
	}
	if !q.HasState("a") || q.HasState("c") {
		t.Errorf("Expected HasState to track seen states")
	}
}

func TestQTableRecord(t *testing.T) {
	q := NewQTable()
	q.Set("s", "0", 1.5)

	file := path.Join(t.TempDir(), "qtable.json")
	if err := q.Record(file); err != nil {
		t.Fatalf("Expected no error, got %s", err)
	}

	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Expected file to exist, got %s", err)
	}
	var table map[string]map[string]float64
	if err := json.Unmarshal(bs, &table); err != nil {
		t.Fatalf("Expected valid json, got %s", err)
	}
	if table["s"]["0"] != 1.5 {
		t.Errorf("Expected recorded value 1.5, got %f", table["s"]["0"])
	}
}
