package hotkeys

import (
	"sort"
	"testing"

	"github.com/1broseidon/gridsnap/internal/platform/platformtest"
)

func TestLockCombinations(t *testing.T) {
	got := lockCombinations([]uint16{2, 16, 128})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := []uint16{2, 16, 18, 128, 130, 144, 146}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLockCombinations_Empty(t *testing.T) {
	if got := lockCombinations(nil); len(got) != 0 {
		t.Fatalf("expected no masks, got %v", got)
	}
}

func TestNewHandler_RejectsNonX11Backend(t *testing.T) {
	if _, err := NewHandler(platformtest.New(), nil); err == nil {
		t.Fatal("expected error for a backend without X11 access")
	}
}
