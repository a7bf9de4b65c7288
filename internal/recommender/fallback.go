package recommender

import "github.com/wanderbot/wanderbot/internal/models"

const fallbackSummaryRunes = 150

// Fallback produces a curated recommendation set for any summary. Pure and
// total: the recommendations endpoint must always have something valid to
// return, whatever the LLM path did.
func Fallback(conversationSummary string) *models.TravelRecommendations {
	summary := conversationSummary
	if runes := []rune(summary); len(runes) > fallbackSummaryRunes {
		summary = string(runes[:fallbackSummaryRunes]) + "..."
	}

	return &models.TravelRecommendations{
		Summary: summary,
		Activities: []models.Activity{
			{
				ID:          "mock-act-1",
				Title:       "Free Walking Tour",
				Description: "Join a free walking tour to explore the city's main attractions with a local guide.",
				Category:    "Tour",
				Price:       0,
				Rating:      4.8,
				Location:    "City Center",
			},
			{
				ID:          "mock-act-2",
				Title:       "Museum Visit",
				Description: "Explore the local history and culture at the national museum.",
				Category:    "Culture",
				Price:       15,
				Rating:      4.6,
				Location:    "Museum District",
			},
			{
				ID:          "mock-act-3",
				Title:       "Street Food Tour",
				Description: "Sample authentic local street food at popular food markets.",
				Category:    "Food",
				Price:       25,
				Rating:      4.7,
				Location:    "Food Market District",
			},
			{
				ID:          "mock-act-4",
				Title:       "City Park Picnic",
				Description: "Relax in the beautiful city park with scenic views.",
				Category:    "Leisure",
				Price:       5,
				Rating:      4.5,
				Location:    "Central Park",
			},
			{
				ID:          "mock-act-5",
				Title:       "Evening River Cruise",
				Description: "Enjoy a scenic boat ride along the river at sunset.",
				Category:    "Adventure",
				Price:       30,
				Rating:      4.9,
				Location:    "Riverside",
			},
		},
		Hotels: []models.Hotel{
			{
				ID:            "mock-hotel-1",
				Name:          "Budget Hostel Downtown",
				Description:   "Clean, modern hostel in the heart of the city with free WiFi and breakfast.",
				PricePerNight: 25,
				Rating:        4.3,
				Location:      "Downtown",
				Amenities:     []string{"WiFi", "Breakfast", "Lockers", "Common Room"},
			},
			{
				ID:            "mock-hotel-2",
				Name:          "Student Residence Hotel",
				Description:   "Affordable hotel near universities with study spaces and kitchen access.",
				PricePerNight: 40,
				Rating:        4.5,
				Location:      "University District",
				Amenities:     []string{"WiFi", "Kitchen", "Laundry", "Study Room"},
			},
			{
				ID:            "mock-hotel-3",
				Name:          "Boutique B&B",
				Description:   "Cozy bed and breakfast with local charm and hearty breakfast included.",
				PricePerNight: 55,
				Rating:        4.7,
				Location:      "Old Town",
				Amenities:     []string{"WiFi", "Breakfast", "Garden", "Bicycle Rental"},
			},
		},
		Restaurants: []models.Restaurant{
			{
				ID:          "mock-rest-1",
				Name:        "Local Eats Cafe",
				Description: "Popular cafe serving traditional dishes at budget-friendly prices.",
				Cuisine:     "Local",
				PriceRange:  "$",
				Rating:      4.4,
				Location:    "City Center",
			},
			{
				ID:          "mock-rest-2",
				Name:        "Pizza Corner",
				Description: "Authentic wood-fired pizzas with student discounts.",
				Cuisine:     "Italian",
				PriceRange:  "$",
				Rating:      4.6,
				Location:    "Downtown",
			},
			{
				ID:          "mock-rest-3",
				Name:        "Fusion Street Kitchen",
				Description: "Modern fusion cuisine with affordable lunch specials.",
				Cuisine:     "Fusion",
				PriceRange:  "$$",
				Rating:      4.5,
				Location:    "Trendy District",
			},
		},
	}
}
