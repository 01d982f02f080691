package ports

import (
	"context"

	"github.com/inkinno/projects/internal/domain"
)

// EventClassifier makes exactly one attempt per call. Implementations return an error
// wrapping domain.ErrClassification when the verdict does not satisfy the schema.
type EventClassifier interface {
	Classify(ctx context.Context, content string) (domain.Classification, error)
}
