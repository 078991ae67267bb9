package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := ThemeUUID("Ottoman")
	second := ThemeUUID(" ottoman ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil theme uuid")
	}
	if first != second {
		t.Fatalf("expected normalised names to share an id, got %s and %s", first, second)
	}
}

func TestUUIDSeparatesDomains(t *testing.T) {
	if ThemeUUID("main") == SiteThemeUUID("main") {
		t.Fatal("expected theme and site ids to differ for the same key")
	}
	if LayoutConfigurationUUID("home", "content") == LayoutConfigurationUUID("home", "sidebar") {
		t.Fatal("expected region to participate in configuration ids")
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatal("expected blank key to yield nil uuid")
	}
}
