package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize trims a raw candidate and returns its display form: first letter
// upper-cased, the remainder lower-cased. Blank input yields "".
func Normalize(token string) string {
	lower := strings.ToLower(strings.TrimSpace(token))
	if lower == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:]
}

// nameSet tracks accepted display names in insertion order.
type nameSet struct {
	names []string
	seen  map[string]struct{}
}

func newNameSet(capacity int) *nameSet {
	if capacity < 0 {
		capacity = 0
	}
	return &nameSet{
		names: make([]string, 0, capacity),
		seen:  make(map[string]struct{}, capacity),
	}
}

// add appends an already normalized name unless it is empty or a duplicate.
func (s *nameSet) add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *nameSet) has(name string) bool {
	_, ok := s.seen[name]
	return ok
}

func (s *nameSet) len() int {
	return len(s.names)
}
