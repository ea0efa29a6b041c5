package assistant

import "github.com/ray-remotestate/swiftserve/models"

const fallbackRecommendations = 3

// Recommend returns the ids of available items flagged as recommended, or
// the first three available items when none are flagged.
func Recommend(menu []models.MenuItem) []string {
	ids := []string{}
	var available []models.MenuItem
	for _, item := range menu {
		if !item.Available {
			continue
		}
		available = append(available, item)
		if item.AIRecommended {
			ids = append(ids, item.ID)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	for i := 0; i < len(available) && i < fallbackRecommendations; i++ {
		ids = append(ids, available[i].ID)
	}
	return ids
}

type Feature struct {
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
}

type Features struct {
	AIFeatures             []Feature `json:"ai_features"`
	SupportedLanguages     []string  `json:"supported_languages"`
	ProcessingCapabilities []string  `json:"processing_capabilities"`
}

// Capabilities describes the assistant endpoints.
func Capabilities() Features {
	return Features{
		AIFeatures: []Feature{
			{
				Name:        "Customization Processing",
				Endpoint:    "/api/ai/customize",
				Description: "Converts natural language customer requests into structured kitchen instructions",
			},
			{
				Name:        "Server Action Suggestions",
				Endpoint:    "/api/ai/suggest_action",
				Description: "Generates contextual hospitality prompts based on order data and timing",
			},
			{
				Name:        "Menu Recommendations",
				Endpoint:    "/api/ai/menu-recommendations",
				Description: "Highlights recommended dishes from the current menu",
			},
		},
		SupportedLanguages: []string{"English"},
		ProcessingCapabilities: []string{
			"Spice level detection",
			"Ingredient modification",
			"Cooking preference analysis",
			"Portion size adjustment",
			"Context-aware server prompts",
		},
	}
}
