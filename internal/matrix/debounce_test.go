package matrix

import (
	"testing"

	"loopdrum-service/internal/types"
)

func TestDebouncerPressOnThirdSample(t *testing.T) {
	d := NewDebouncer(3)
	cell := types.Cell{Column: 1, Row: 2}

	want := []Edge{EdgeNone, EdgeNone, EdgePress}
	for i, w := range want {
		if got := d.Sample(cell, true); got != w {
			t.Fatalf("sample %d: expected %v, got %v", i+1, w, got)
		}
	}

	// Holding the button must not repeat the press
	for i := 0; i < 5; i++ {
		if got := d.Sample(cell, true); got != EdgeNone {
			t.Fatalf("held sample %d: expected no edge, got %v", i, got)
		}
	}
}

func TestDebouncerReleaseOnceAtZero(t *testing.T) {
	d := NewDebouncer(3)
	cell := types.Cell{Column: 0, Row: 0}
	for i := 0; i < 3; i++ {
		d.Sample(cell, true)
	}

	want := []Edge{EdgeNone, EdgeNone, EdgeRelease, EdgeNone, EdgeNone}
	for i, w := range want {
		if got := d.Sample(cell, false); got != w {
			t.Fatalf("release sample %d: expected %v, got %v", i+1, w, got)
		}
	}
}

func TestDebouncerBounceSuppressed(t *testing.T) {
	d := NewDebouncer(3)
	cell := types.Cell{Column: 3, Row: 3}

	// pressed, released, pressed, released never reaches the bound
	samples := []bool{true, false, true, false, true, true, false, false}
	for i, s := range samples {
		if got := d.Sample(cell, s); got != EdgeNone {
			t.Fatalf("sample %d (%v): expected no edge, got %v", i, s, got)
		}
	}
	if c := d.cells[cell.Column][cell.Row]; c.Count != 0 || c.Pressed {
		t.Errorf("expected cell to settle back at released, got %+v", c)
	}
}

func TestDebouncerCountStaysInBounds(t *testing.T) {
	d := NewDebouncer(3)
	cell := types.Cell{Column: 2, Row: 1}

	presses, releases := 0, 0
	pattern := []bool{true, true, true, true, false, true, false, false, false, false, true, true, true}
	for round := 0; round < 4; round++ {
		for _, s := range pattern {
			prev := d.cells[cell.Column][cell.Row].Count
			switch d.Sample(cell, s) {
			case EdgePress:
				presses++
			case EdgeRelease:
				releases++
			}
			count := d.cells[cell.Column][cell.Row].Count
			if count < 0 || count > d.max {
				t.Fatalf("count %d out of [0,%d]", count, d.max)
			}
			if diff := count - prev; diff > 1 || diff < -1 {
				t.Fatalf("count moved by %d in one sample", diff)
			}
		}
	}

	if presses == 0 || presses-releases > 1 || presses < releases {
		t.Errorf("unbalanced edges: %d presses, %d releases", presses, releases)
	}
}

func TestDebouncerStableState(t *testing.T) {
	d := NewDebouncer(2)
	cell := types.Cell{Column: 0, Row: 1}
	state := func() DebouncedCell { return d.cells[cell.Column][cell.Row] }

	d.Sample(cell, true)
	if state().Pressed {
		t.Fatal("one sample must not confirm a press")
	}
	d.Sample(cell, true)
	if !state().Pressed || !state().Raw {
		t.Fatalf("expected confirmed press, got %+v", state())
	}
	d.Sample(cell, false)
	if !state().Pressed {
		t.Fatal("mid-transition cell should stay pressed")
	}
	if state().Raw {
		t.Error("expected raw level to track last sample")
	}
}

// A cell that never reached the maximum must not report a release when it
// falls back to zero.
func TestDebouncerNoReleaseWithoutPress(t *testing.T) {
	d := NewDebouncer(3)
	cell := types.Cell{Column: 1, Row: 0}

	for i, s := range []bool{true, true, false, false} {
		if got := d.Sample(cell, s); got != EdgeNone {
			t.Fatalf("sample %d (%v): expected no edge, got %v", i, s, got)
		}
	}

	// a full press afterwards still reports both edges once
	edges := map[Edge]int{}
	for _, s := range []bool{true, true, true, false, false, false} {
		edges[d.Sample(cell, s)]++
	}
	if edges[EdgePress] != 1 || edges[EdgeRelease] != 1 {
		t.Errorf("expected one press and one release, got %v", edges)
	}
}

func TestNewDebouncerClampsMax(t *testing.T) {
	d := NewDebouncer(0)
	if d.max != 1 {
		t.Fatalf("expected max 1, got %d", d.max)
	}
	if got := d.Sample(types.Cell{}, true); got != EdgePress {
		t.Errorf("expected immediate press, got %v", got)
	}
}
