package styles

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/solarsizer/internal/session"
)

func TestStatusPresentation(t *testing.T) {
	tests := []struct {
		status session.Status
		color  string
		icon   string
	}{
		{session.Idle, "#9CA3AF", "○"},
		{session.Loading, "#60A5FA", "●"},
		{session.Ready, "#10B981", "✓"},
		{session.Failed, "#F87171", "✗"},
	}

	for _, tt := range tests {
		name := tt.status.String()
		t.Run(name, func(t *testing.T) {
			if got := StatusColor(name); string(got) != tt.color {
				t.Errorf("StatusColor(%q) = %q, want %q", name, got, tt.color)
			}
			if got := StatusIcon(name); got != tt.icon {
				t.Errorf("StatusIcon(%q) = %q, want %q", name, got, tt.icon)
			}
			if got := Badge(name); !strings.Contains(got, tt.icon+" "+name) {
				t.Errorf("Badge(%q) = %q, want icon and name", name, got)
			}
		})
	}
}

func TestUnknownStatusFallsBack(t *testing.T) {
	if got := StatusColor("paused"); got != MutedColor {
		t.Errorf("StatusColor(paused) = %q, want muted", got)
	}
	if got := StatusIcon("paused"); got != "●" {
		t.Errorf("StatusIcon(paused) = %q, want ●", got)
	}
}
