package recommender

import (
	"context"

	"github.com/wanderbot/wanderbot/internal/models"
)

// Recommender turns a conversation summary into structured travel
// recommendations. Implementations may fail; callers that need a total
// function wrap failures with Fallback.
type Recommender interface {
	Recommend(ctx context.Context, conversationSummary string) (*models.TravelRecommendations, error)
}
