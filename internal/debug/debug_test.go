package debug

import (
	"strings"
	"testing"
)

func TestAddfKeepsMostRecentEntries(t *testing.T) {
	l := New(3)

	for _, m := range []string{"one", "two", "three", "four"} {
		l.Addf("Test", "%s", m)
	}

	if l.Len() != 3 {
		t.Fatalf("Expected 3 entries but got %d", l.Len())
	}

	s := l.String()
	if strings.Contains(s, "one") {
		t.Fatalf("Expected the oldest entry to be evicted, got:\n%s", s)
	}

	for _, m := range []string{"two", "three", "four"} {
		if !strings.Contains(s, m) {
			t.Fatalf("Expected entry '%s' in dump:\n%s", m, s)
		}
	}

	// Oldest first.
	if strings.Index(s, "two") > strings.Index(s, "four") {
		t.Fatalf("Expected oldest-first ordering, got:\n%s", s)
	}
}

func TestEmptyLog(t *testing.T) {
	l := New(5)

	if l.Len() != 0 {
		t.Fatalf("Expected an empty log but got %d entries", l.Len())
	}
	if l.String() != "" {
		t.Fatalf("Expected an empty dump but got '%s'", l.String())
	}
}
