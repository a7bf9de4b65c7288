package models

// Activity is a single suggested thing to do.
type Activity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating,omitempty"`
	Location    string  `json:"location,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"pricePerNight"`
	Rating        float64  `json:"rating,omitempty"`
	Location      string   `json:"location"`
	Amenities     []string `json:"amenities,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cuisine     string  `json:"cuisine"`
	PriceRange  string  `json:"priceRange"` // "$", "$$", "$$$"
	Rating      float64 `json:"rating,omitempty"`
	Location    string  `json:"location,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// TravelRecommendations is the response shape of the recommendations
// endpoint. It is built fresh per request and never persisted; items the user
// keeps are copied into SavedItem records.
type TravelRecommendations struct {
	Summary     string       `json:"summary,omitempty"`
	Activities  []Activity   `json:"activities"`
	Hotels      []Hotel      `json:"hotels"`
	Restaurants []Restaurant `json:"restaurants,omitempty"`
}

type RecommendationsRequest struct {
	ConversationSummary string `json:"conversationSummary"`
	ConversationID      string `json:"conversationId,omitempty"`
}

type RecommendationsResponse struct {
	Success bool                   `json:"success"`
	Data    *TravelRecommendations `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
