package observability_test

import (
	"testing"

	"github.com/rs/zerolog"

	"hotel_directory/internal/adapters/observability"
)

func TestNewLogger_Level(t *testing.T) {
	if l := observability.NewLogger("prod", "debug"); l.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level: %v", l.GetLevel())
	}
	if l := observability.NewLogger("dev", "nonsense"); l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("fallback level: %v", l.GetLevel())
	}
}
