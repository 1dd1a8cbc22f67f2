package naming

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b[A-Za-z]{3,8}\b`)

// stopWords never count as candidates. The first line is the fixed naming
// vocabulary. The second line goes beyond it: filler words models wrap around
// a list ("Here are some names: ...") would otherwise be accepted as names, so
// prose such as "Names: Here, Some" yields only pool top-up.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "app": {}, "saas": {}, "name": {}, "brand": {},
	"here": {}, "are": {}, "some": {}, "names": {}, "your": {}, "json": {},
}

// ExtractNames scans free text for 3-8 letter words in order of first
// appearance and tops the result up from the fallback pool to reach count.
func ExtractNames(raw string, count int) []string {
	if count <= 0 {
		return []string{}
	}

	accepted := newNameSet(count)
	for _, word := range wordPattern.FindAllString(raw, -1) {
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		accepted.add(Normalize(word))
		if accepted.len() >= count {
			return accepted.names
		}
	}
	return topUp(accepted, count)
}

// topUp fills the shortfall with pool names not already accepted, then with
// synthetic names once the pool is exhausted.
func topUp(accepted *nameSet, count int) []string {
	for _, candidate := range FallbackNames(len(fallbackPool)) {
		if accepted.len() >= count {
			return accepted.names
		}
		if accepted.has(candidate) {
			continue
		}
		accepted.add(candidate)
	}
	names := accepted.names
	if shortfall := count - len(names); shortfall > 0 {
		names = append(names, syntheticNames(shortfall)...)
	}
	return names[:count]
}
