package hardware

import (
	"strings"
	"testing"
)

func TestDefaultPinMapValid(t *testing.T) {
	p := DefaultPinMap()
	if err := p.Validate(); err != nil {
		t.Fatalf("default pin map invalid: %v", err)
	}
	if p.Channels() != 1 {
		t.Errorf("expected mono default, got %d channels", p.Channels())
	}

	// DefaultPinMap must not alias the package defaults
	p.LEDRows[0][0] = 99
	if DefaultLEDRows[0][0] == 99 {
		t.Error("DefaultPinMap shares LED row slices with defaults")
	}
}

func TestPinMapRejectsDuplicateLine(t *testing.T) {
	p := DefaultPinMap()
	p.ButtonRows[2] = p.LEDColumns[1]

	err := p.Validate()
	if err == nil {
		t.Fatal("expected duplicate line error")
	}
	if !strings.Contains(err.Error(), "used by both") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPinMapRejectsMixedChannelCounts(t *testing.T) {
	p := DefaultPinMap()
	p.LEDRows = [4][]int{{2, 3, 4}, {5, 7, 8}, {11, 14, 15}, {17}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for mixed channel counts")
	}

	p.LEDRows[3] = []int{18, 23, 24}
	if err := p.Validate(); err != nil {
		t.Fatalf("RGB pin map should be valid: %v", err)
	}
	if p.Channels() != 3 {
		t.Errorf("expected 3 channels, got %d", p.Channels())
	}
}

func TestPromoteScanThreadDisabled(t *testing.T) {
	if err := PromoteScanThread(0); err != nil {
		t.Errorf("priority 0 should be a no-op, got %v", err)
	}
	if err := PromoteScanThread(120); err == nil {
		t.Error("expected range error for priority 120")
	}
}
