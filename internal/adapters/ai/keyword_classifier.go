package ai

import (
	"context"
	"strings"

	"github.com/inkinno/projects/internal/domain"
)

type keywordRule struct {
	category  string
	highlight bool
	reason    string
	words     []string
}

var keywordRules = []keywordRule{
	{
		category:  "potential issue",
		highlight: true,
		reason:    "Mentions a failure or risk that may need follow-up.",
		words:     []string{"outage", "incident", "bug", "fail", "broken", "blocked", "delay", "rollback", "regression", "risk", "security"},
	},
	{
		category:  "critical milestone",
		highlight: true,
		reason:    "Marks a release or launch.",
		words:     []string{"launch", "release", "shipped", "go-live", "go live", "milestone", "ga ", "v1", "v2", "deadline"},
	},
}

// KeywordClassifier classifies without any network call. It backs local runs where no
// model endpoint is configured.
type KeywordClassifier struct{}

func NewKeywordClassifier() KeywordClassifier {
	return KeywordClassifier{}
}

func (KeywordClassifier) Classify(ctx context.Context, content string) (domain.Classification, error) {
	if err := ctx.Err(); err != nil {
		return domain.Classification{}, err
	}
	text := strings.ToLower(content) + " "
	for _, rule := range keywordRules {
		for _, w := range rule.words {
			if strings.Contains(text, w) {
				return domain.Classification{Category: rule.category, Highlight: rule.highlight, Reason: rule.reason}, nil
			}
		}
	}
	return domain.Classification{
		Category:  "normal update",
		Highlight: false,
		Reason:    "Routine progress with no release or risk signal.",
	}, nil
}
