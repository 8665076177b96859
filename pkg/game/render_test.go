package game

import (
	"strings"
	"testing"
)

func TestHelpText(t *testing.T) {
	text := helpText(false, []string{"Speed Track", "Dubai Track"}, 5)

	for _, want := range []string{
		"5 second penalty",
		"Your last lap comes back as a ghost",
		"1               - Speed Track",
		"2               - Dubai Track",
		"Press SPACE to continue",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("help text is missing %q", want)
		}
	}
	if strings.Contains(text, "best lap") {
		t.Error("the ghost replays the most recent lap, not the best one")
	}
}

func TestHelpTextTouch(t *testing.T) {
	text := helpText(true, []string{"Speed Track"}, 5)

	if !strings.Contains(text, "Tap anywhere to continue") {
		t.Error("touch help should explain how to resume")
	}
	if strings.Contains(text, "Speed Track") {
		t.Error("touch help has no keyboard track list")
	}
}
