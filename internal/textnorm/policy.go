package textnorm

// ForbiddenEdgeTokens are connector words that a rendered caption line
// should not end on; the line break would separate them from what they bind
var ForbiddenEdgeTokens = map[string]struct{}{
	"and":  {},
	"but":  {},
	"or":   {},
	"so":   {},
	"to":   {},
	"of":   {},
	"for":  {},
	"from": {},
	"with": {},
	"in":   {},
	"on":   {},
	"at":   {},
	"by":   {},
	"as":   {},
	"the":  {},
	"a":    {},
	"an":   {},
}

// DanglingTailWords are words that leave a cue hanging mid-thought when they
// appear as the final token
var DanglingTailWords = map[string]struct{}{
	"and":     {},
	"but":     {},
	"or":      {},
	"so":      {},
	"because": {},
	"which":   {},
	"that":    {},
	"to":      {},
	"of":      {},
	"the":     {},
	"a":       {},
	"an":      {},
}

// ForbiddenStartWords are conjunctions that should not open a cue that
// begins a new sentence. A cue continuing the previous cue's sentence may
// start with any of them.
var ForbiddenStartWords = map[string]struct{}{
	"and":     {},
	"but":     {},
	"or":      {},
	"nor":     {},
	"so":      {},
	"yet":     {},
	"because": {},
	"which":   {},
}

// IsForbiddenEdge reports whether the token may not end a line
func IsForbiddenEdge(token string) bool {
	_, ok := ForbiddenEdgeTokens[StripToken(token)]
	return ok
}

// IsDanglingTail reports whether a cue ending on this token is left dangling
func IsDanglingTail(token string) bool {
	_, ok := DanglingTailWords[StripToken(token)]
	return ok
}

// IsForbiddenStart reports whether the token may not open a new-sentence cue
func IsForbiddenStart(token string) bool {
	_, ok := ForbiddenStartWords[StripToken(token)]
	return ok
}
