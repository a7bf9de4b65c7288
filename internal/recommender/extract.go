package recommender

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wanderbot/wanderbot/internal/models"
)

// ErrNoJSON means the model output contained nothing that looks like a JSON
// object. Distinct from ParseError: this one is an expected degraded path,
// the other means the repair heuristics were not enough.
var ErrNoJSON = errors.New("no JSON found in model output")

// ParseError reports a candidate JSON region that still failed to parse
// after repair. Cleaned carries the repaired text for diagnostics.
type ParseError struct {
	Cleaned string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing repaired model output: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

var (
	fencedJSON     = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	braceObject    = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommas = regexp.MustCompile(`,(\s*[}\]])`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// ExtractRecommendations pulls a TravelRecommendations object out of raw
// model output. The model is asked for pure JSON but routinely wraps it in
// markdown fences or prose and leaves trailing commas, so the candidate
// region is located, repaired, and only then parsed.
func ExtractRecommendations(text string) (*models.TravelRecommendations, error) {
	var candidate string
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if m := braceObject.FindString(text); m != "" {
		candidate = m
	} else {
		return nil, ErrNoJSON
	}

	cleaned := repairJSON(candidate)

	var recs models.TravelRecommendations
	if err := json.Unmarshal([]byte(cleaned), &recs); err != nil {
		return nil, &ParseError{Cleaned: cleaned, Cause: err}
	}
	return &recs, nil
}

// repairJSON targets exactly the defect classes seen in practice: trailing
// commas before a closing brace or bracket, and formatting whitespace.
func repairJSON(s string) string {
	s = trailingCommas.ReplaceAllString(s, "$1")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
