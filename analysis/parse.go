package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"stock-sector-analyzer/models"
)

var (
	jsonBlockPattern = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	validate         = validator.New()
)

// responsePayload is the JSON object the model is asked to return
type responsePayload struct {
	CompanyName    string   `json:"companyName" validate:"required"`
	Recommendation string   `json:"recommendation" validate:"required"`
	EntryPoint     any      `json:"entryPoint"`
	Reasoning      []string `json:"reasoning" validate:"required"`
}

// ParseResponse extracts the first fenced JSON block from model text and
// converts it into an AnalysisResult. Failures are returned as *Error
// without a ticker.
func ParseResponse(text string) (*models.AnalysisResult, error) {
	m := jsonBlockPattern.FindStringSubmatch(text)
	if len(m) < 2 || strings.TrimSpace(m[1]) == "" {
		return nil, &Error{Kind: KindMissingJSON}
	}

	var payload responsePayload
	if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
		return nil, &Error{Kind: KindMalformedJSON, Err: err}
	}

	if err := validate.Struct(payload); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Err: err}
	}

	rec, ok := models.ParseRecommendation(strings.TrimSpace(payload.Recommendation))
	if !ok || rec == models.RecommendationFailed {
		return nil, &Error{Kind: KindInvalidResponse, Err: fmt.Errorf("unrecognized recommendation %q", payload.Recommendation)}
	}

	entry, err := entryPoint(payload.EntryPoint)
	if err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Err: err}
	}

	return &models.AnalysisResult{
		CompanyName:    strings.TrimSpace(payload.CompanyName),
		Recommendation: rec,
		EntryPoint:     entry,
		Reasoning:      payload.Reasoning,
	}, nil
}

// entryPoint accepts a string, a bare number or null
func entryPoint(v any) (*string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if val = strings.TrimSpace(val); val == "" {
			return nil, nil
		}
		return &val, nil
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s, nil
	default:
		return nil, fmt.Errorf("entryPoint must be a string or null, got %T", v)
	}
}
