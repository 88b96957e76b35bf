package platform

import "testing"

func TestParseWindowState(t *testing.T) {
	tests := []struct {
		name string
		want WindowState
	}{
		{"show", StateShow},
		{"hide", StateHide},
		{"minimize", StateMinimize},
		{" Restore ", StateRestore},
		{"MAXIMIZE", StateMaximize},
	}
	for _, tt := range tests {
		got, err := ParseWindowState(tt.name)
		if err != nil {
			t.Fatalf("ParseWindowState(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("ParseWindowState(%q) = %s, want %s", tt.name, got, tt.want)
		}
		if back, _ := ParseWindowState(got.String()); back != got {
			t.Fatalf("String() of %s does not parse back", got)
		}
	}

	if _, err := ParseWindowState("fullscreen"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestWindowState_StringUnknown(t *testing.T) {
	if got := WindowState(42).String(); got != "state(42)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestBounds_Size(t *testing.T) {
	b := Bounds{Left: -7, Top: 353, Right: 654, Bottom: 720}
	if b.Width() != 661 || b.Height() != 367 {
		t.Fatalf("size = %dx%d, want 661x367", b.Width(), b.Height())
	}
}
