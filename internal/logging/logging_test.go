package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_Level(t *testing.T) {
	cases := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		for _, format := range []string{"text", "json"} {
			log := Setup(format, tc.level)
			if got := log.GetLevel(); got != tc.want {
				t.Errorf("Setup(%q, %q) level = %v, want %v", format, tc.level, got, tc.want)
			}
		}
	}
}
