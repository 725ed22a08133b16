package frontend

import (
	"fmt"
	"strings"
)

// fallbackStem names a fresh symbol requested with an empty or otherwise
// null base (§4.2).
const fallbackStem = "_lower_gen"

// NameAllocator mints unique IR function symbols for lambdas and nested
// function definitions, shared across one module's whole lowering run
// (§4.2). The first request for a given base returns it unchanged; every
// subsequent request for the same base is disambiguated with a monotone
// "@N" suffix, so repeated lowering of identical input always produces the
// identical sequence of names (§5).
type NameAllocator struct {
	next map[string]int
}

// NewNameAllocator constructs an empty allocator.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{next: make(map[string]int)}
}

// Fresh returns base the first time it is requested, then base@0, base@1,
// and so on for every later request of the same base. "@" is reserved as
// the disambiguator and is stripped from user-supplied bases first.
func (a *NameAllocator) Fresh(base string) string {
	stem := strings.ReplaceAll(base, "@", "")
	if stem == "" {
		stem = fallbackStem
	}

	n, seen := a.next[stem]
	if !seen {
		a.next[stem] = 0
		return stem
	}

	a.next[stem] = n + 1

	return fmt.Sprintf("%s@%d", stem, n)
}
