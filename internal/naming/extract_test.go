package naming

import (
	"reflect"
	"testing"
)

func TestExtractNamesFromProse(t *testing.T) {
	names := ExtractNames("Here are some names: Ryze, Flux, and Nova for your app", 3)
	expect := []string{"Ryze", "Flux", "Nova"}
	if !reflect.DeepEqual(names, expect) {
		t.Fatalf("expected %v got %v", expect, names)
	}
}

func TestExtractNamesSkipsStopWordsAndDuplicates(t *testing.T) {
	names := ExtractNames("THE brand APP saas name for the Qlix qlix QLIX and Zeta", 2)
	expect := []string{"Qlix", "Zeta"}
	if !reflect.DeepEqual(names, expect) {
		t.Fatalf("expected %v got %v", expect, names)
	}
}

func TestExtractNamesIgnoresShortLongAndMixedTokens(t *testing.T) {
	names := ExtractNames("ab abcdefghi x9yz Koda_ Mira", 1)
	if !reflect.DeepEqual(names, []string{"Mira"}) {
		t.Fatalf("expected [Mira] got %v", names)
	}
}

func TestExtractNamesTopsUpFromPool(t *testing.T) {
	names := ExtractNames("Ryze, Flux, and Nova", 10)
	if len(names) != 10 {
		t.Fatalf("expected 10 names got %d: %v", len(names), names)
	}
	if !reflect.DeepEqual(names[:3], []string{"Ryze", "Flux", "Nova"}) {
		t.Fatalf("expected extracted names first, got %v", names)
	}
	assertDistinct(t, names)
	for _, name := range names[3:] {
		if !inPool(name) {
			t.Fatalf("top-up name %q not from pool", name)
		}
	}
}

func TestExtractNamesNothingFound(t *testing.T) {
	names := ExtractNames("!!! 123 ...", 5)
	if len(names) != 5 {
		t.Fatalf("expected 5 fallback names got %v", names)
	}
	assertDistinct(t, names)
}

func TestExtractNamesZeroCount(t *testing.T) {
	if names := ExtractNames("Ryze Flux", 0); len(names) != 0 {
		t.Fatalf("expected no names got %v", names)
	}
}

func assertDistinct(t *testing.T, names []string) {
	t.Helper()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			t.Fatalf("duplicate name %q in %v", name, names)
		}
		seen[name] = struct{}{}
	}
}

func inPool(name string) bool {
	for _, candidate := range fallbackPool {
		if candidate == name {
			return true
		}
	}
	return false
}

func TestExtractNamesTreatsListFillerAsStopWords(t *testing.T) {
	names := ExtractNames("Names: Here, Some, Your, Json, Are", 5)
	if len(names) != 5 {
		t.Fatalf("expected 5 names got %v", names)
	}
	for _, name := range names {
		if !inPool(name) {
			t.Fatalf("%q should come from the pool top-up, not the filler words", name)
		}
	}
	assertDistinct(t, names)
}
