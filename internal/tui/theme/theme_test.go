package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("flexoki-light").Name; got != "flexoki-light" {
		t.Errorf("ByName(flexoki-light) = %q", got)
	}
	if got := ByName("nope").Name; got != "flexoki-dark" {
		t.Errorf("ByName(nope) = %q, want flexoki-dark", got)
	}
}

func TestClassColor(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		class string
		want  bool
	}{
		{"symbol-max", true},
		{"thief-pirate", true},
		{"equipment-dawn", true},
		{"cooldown-skip", true},
		{"", false},
		{"unknown", false},
	}
	for _, tt := range tests {
		if _, ok := th.ClassColor(tt.class); ok != tt.want {
			t.Errorf("ClassColor(%q) ok = %v, want %v", tt.class, ok, tt.want)
		}
	}
	if c, _ := th.ClassColor("symbol-max"); c != th.Green {
		t.Errorf("symbol-max = %v, want %v", c, th.Green)
	}
}
