package core

import (
	"testing"

	"loopdrum-service/internal/types"
)

func TestMenuDefaults(t *testing.T) {
	m := NewMenu(4)

	if m.Index() != 0 || m.Name() != "select_kit" {
		t.Errorf("expected select_kit first, got %d %s", m.Index(), m.Name())
	}
	if m.Kit() != 1 || !m.AudioOn() {
		t.Errorf("unexpected defaults: kit %d audio %v", m.Kit(), m.AudioOn())
	}
	if m.Line() != "select_kit:1" {
		t.Errorf("unexpected line %q", m.Line())
	}
}

func TestMenuNextWraps(t *testing.T) {
	m := NewMenu(4)
	for n := 1; n <= 2*m.Len(); n++ {
		m.Next()
		if m.Index() != n%m.Len() {
			t.Fatalf("step %d: expected %d, got %d", n, n%m.Len(), m.Index())
		}
	}
}

func TestMenuApply(t *testing.T) {
	m := NewMenu(2)

	if a := m.Apply(); a != types.SelectKit(2) {
		t.Errorf("expected select_kit 2, got %s", a)
	}
	if a := m.Apply(); a != types.SelectKit(1) {
		t.Errorf("expected wrap to select_kit 1, got %s", a)
	}

	m.Next()
	if a := m.Apply(); a != types.AudioOff() {
		t.Errorf("expected audio_off, got %s", a)
	}
	if m.AudioOn() {
		t.Error("audio should be off")
	}

	m.Next()
	if a := m.Apply(); a != types.ClearAll() {
		t.Errorf("expected clear_all, got %s", a)
	}
	if m.Value() != 1 {
		t.Errorf("clear_all should read 1 after apply, got %d", m.Value())
	}

	m.Reset()
	if m.Index() != 0 {
		t.Errorf("reset should move cursor to 0, got %d", m.Index())
	}
	if m.Kit() != 1 || m.AudioOn() {
		t.Error("reset must keep persistent option values")
	}
	m.Next()
	m.Next()
	if m.Value() != 0 {
		t.Errorf("reset should clear clear_all, got %d", m.Value())
	}
}

func TestMenuClampsKitCount(t *testing.T) {
	m := NewMenu(0)
	if a := m.Apply(); a != types.SelectKit(1) {
		t.Errorf("single kit should stay at 1, got %s", a)
	}
}
