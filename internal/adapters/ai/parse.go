package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkinno/projects/internal/domain"
)

// classificationPayload uses pointers so that a missing field can be told apart from a
// zero value. Extra keys in the reply are ignored.
type classificationPayload struct {
	Category  *string `json:"category"`
	Highlight *bool   `json:"highlight"`
	Reason    *string `json:"reason"`
}

// ParseClassification validates a model reply against the classification schema:
// non-empty category, boolean highlight, non-empty reason.
func ParseClassification(raw string) (domain.Classification, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return domain.Classification{}, fmt.Errorf("%w: empty model reply", domain.ErrClassification)
	}
	var payload classificationPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return domain.Classification{}, fmt.Errorf("%w: reply is not a classification object: %v", domain.ErrClassification, err)
	}
	if payload.Highlight == nil {
		return domain.Classification{}, fmt.Errorf("%w: highlight is missing", domain.ErrClassification)
	}
	verdict := domain.Classification{Highlight: *payload.Highlight}
	if payload.Category != nil {
		verdict.Category = strings.TrimSpace(*payload.Category)
	}
	if payload.Reason != nil {
		verdict.Reason = strings.TrimSpace(*payload.Reason)
	}
	if err := domain.ValidateClassification(verdict); err != nil {
		return domain.Classification{}, err
	}
	return verdict, nil
}

func stripCodeFence(raw string) string {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
