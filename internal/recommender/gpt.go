package recommender

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/models"
)

const recommendationPrompt = `You are a travel expert assistant. Based on this conversation summary from a student travel planning session, generate personalized travel recommendations.

Conversation Summary: "%s"

IMPORTANT: Respond with ONLY valid JSON. No markdown, no code blocks, no additional text. Just pure JSON.

Please provide specific recommendations in valid JSON format with the following structure:
{
  "summary": "A brief overview of the trip plan",
  "activities": [
    {
      "id": "unique_id",
      "title": "Activity name",
      "description": "Detailed description",
      "category": "Tour/Culture/Food/Adventure/etc",
      "price": 25,
      "rating": 4.5,
      "location": "Specific location"
    }
  ],
  "hotels": [
    {
      "id": "unique_id",
      "name": "Hotel name",
      "description": "Hotel description",
      "pricePerNight": 40,
      "rating": 4.5,
      "location": "Area/neighborhood",
      "amenities": ["WiFi", "Breakfast"]
    }
  ],
  "restaurants": [
    {
      "id": "unique_id",
      "name": "Restaurant name",
      "description": "Restaurant description",
      "cuisine": "Cuisine type",
      "priceRange": "$/$$/$$$",
      "rating": 4.5,
      "location": "Area"
    }
  ]
}

Provide 5 activities, 3 hotels (including budget options), and 3 restaurants that match the user's budget and preferences mentioned in the conversation. Use realistic prices and ratings. Ensure all JSON is valid with no trailing commas.`

// GPTRecommender asks a chat completion model for recommendation JSON and
// runs the output through the extractor. It reports failures instead of
// degrading so the caller can decide what a failure means.
type GPTRecommender struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTRecommender(apiKey, baseURL, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTRecommender {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &GPTRecommender{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (r *GPTRecommender) Recommend(ctx context.Context, conversationSummary string) (*models.TravelRecommendations, error) {
	prompt := fmt.Sprintf(recommendationPrompt, conversationSummary)

	resp, err := r.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: r.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   r.maxTokens,
			Temperature: float32(r.temperature),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	recs, err := ExtractRecommendations(text)
	if err != nil {
		var parseErr *ParseError
		switch {
		case errors.Is(err, ErrNoJSON):
			r.logger.Error("no JSON in model output",
				zap.String("response", snippet(text, 500)))
		case errors.As(err, &parseErr):
			r.logger.Error("model output failed to parse after repair",
				zap.Error(parseErr.Cause),
				zap.String("cleaned", snippet(parseErr.Cleaned, 500)))
		}
		return nil, err
	}

	return recs, nil
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
