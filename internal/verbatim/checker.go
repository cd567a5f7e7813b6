package verbatim

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"captionforge/internal/textnorm"
)

// Policy selects which text stream is authoritative for caption wording
type Policy string

const (
	// PolicyAudio treats the speech transcript as authoritative; script
	// divergence is reported but never blocks
	PolicyAudio Policy = "audio"
	// PolicyScript treats the authored script as authoritative; caption
	// text must match it token for token
	PolicyScript Policy = "script"
)

// Valid reports whether the policy is a recognized value
func (p Policy) Valid() bool {
	return p == PolicyAudio || p == PolicyScript
}

// Status is the outcome of a token comparison
type Status string

const (
	StatusPass     Status = "pass"
	StatusMismatch Status = "mismatch"
)

// Result reports the outcome of a positional token comparison
type Result struct {
	Status             Status `json:"status"`
	FirstMismatchIndex int    `json:"first_mismatch_index"`
	Expected           string `json:"expected,omitempty"`
	Actual             string `json:"actual,omitempty"`
	ExpectedLen        int    `json:"expected_len"`
	ActualLen          int    `json:"actual_len"`
	LengthMismatch     bool   `json:"length_mismatch"`
}

// MismatchError is raised when the script policy demands an exact match and
// the caption stream diverges from the script
type MismatchError struct {
	Result Result
}

func (e *MismatchError) Error() string {
	if e.Result.LengthMismatch && e.Result.Expected == "" && e.Result.Actual == "" {
		return fmt.Sprintf("verbatim mismatch: token counts differ (expected %d, actual %d)",
			e.Result.ExpectedLen, e.Result.ActualLen)
	}
	return fmt.Sprintf("verbatim mismatch at token %d: expected %q, actual %q",
		e.Result.FirstMismatchIndex, e.Result.Expected, e.Result.Actual)
}

// knownConfusions maps speech-recognizer mishearings to the terms they are
// commonly confused with. Matches are listed separately in advisory output
// so reviewers can triage them quickly.
var knownConfusions = map[string]string{
	"hostel":            "hostile",
	"development":       "developments",
	"warner discovery":  "warner bros. discovery",
	"live translations": "live translation",
}

// Checker token-aligns two text streams and reports the first divergence
type Checker struct {
	logger *zap.Logger
}

// NewChecker creates a new Checker instance
func NewChecker() *Checker {
	return &Checker{logger: zap.NewNop()}
}

// NewCheckerWithLogger creates a new Checker with the given logger
func NewCheckerWithLogger(logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{logger: logger}
}

// Check compares reference and candidate token streams positionally.
// The first differing index is reported; when lengths differ, the shorter
// length bounds comparison and a length mismatch is reported as well.
func (c *Checker) Check(reference, candidate []string) Result {
	result := Result{
		Status:             StatusPass,
		FirstMismatchIndex: -1,
		ExpectedLen:        len(reference),
		ActualLen:          len(candidate),
	}

	limit := len(reference)
	if len(candidate) < limit {
		limit = len(candidate)
	}

	for i := 0; i < limit; i++ {
		if reference[i] != candidate[i] {
			result.Status = StatusMismatch
			result.FirstMismatchIndex = i
			result.Expected = reference[i]
			result.Actual = candidate[i]
			return result
		}
	}

	if len(reference) != len(candidate) {
		result.Status = StatusMismatch
		result.LengthMismatch = true
		result.FirstMismatchIndex = limit
		if limit < len(reference) {
			result.Expected = reference[limit]
		}
		if limit < len(candidate) {
			result.Actual = candidate[limit]
		}
	}

	return result
}

// CheckText tokenizes both texts with the verbatim normalizer and compares them
func (c *Checker) CheckText(reference, candidate string) Result {
	return c.Check(textnorm.ComparisonTokens(reference), textnorm.ComparisonTokens(candidate))
}

// KnownConfusions lists recognizer confusion pairs present in the candidate
// stream whose counterpart appears in the reference stream
func (c *Checker) KnownConfusions(reference, candidate []string) []string {
	refText := " " + strings.Join(reference, " ") + " "
	candText := " " + strings.Join(candidate, " ") + " "

	var found []string
	for heard, meant := range knownConfusions {
		if strings.Contains(candText, " "+heard+" ") && strings.Contains(refText, " "+meant+" ") {
			found = append(found, fmt.Sprintf("%q vs %q", heard, meant))
		}
	}
	sort.Strings(found)
	return found
}

// LogAdvisory records a mismatch as a warning for the advisory audio policy
func (c *Checker) LogAdvisory(result Result, confusions []string) {
	if result.Status == StatusPass {
		return
	}
	c.logger.Warn("verbatim divergence (advisory)",
		zap.Int("first_mismatch_index", result.FirstMismatchIndex),
		zap.String("expected", result.Expected),
		zap.String("actual", result.Actual),
		zap.Bool("length_mismatch", result.LengthMismatch),
		zap.Strings("known_confusions", confusions))
}
