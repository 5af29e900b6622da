package insight

// Priority ranks how soon an insight should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a recommendation card shown on the insights page.
type Insight struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       Priority `json:"priority"`
	Recommendation string   `json:"recommendation"`
	ActionItems    []string `json:"actionItems"`
	Impact         string   `json:"impact"`
}

// Seed returns the built-in insight catalog.
func Seed() []Insight {
	return []Insight{
		{
			ID:             "1",
			Category:       "Water Management",
			Title:          "Optimize Irrigation Schedule",
			Description:    "Based on soil moisture data and weather forecast",
			Priority:       PriorityHigh,
			Recommendation: "Reduce watering frequency by 20% for the next 3 days due to expected rainfall.",
			ActionItems: []string{
				"Adjust irrigation timer for zones 2 and 3",
				"Monitor soil moisture levels daily",
				"Check drainage after rainfall",
			},
			Impact: "Save 150L of water per day",
		},
		{
			ID:             "2",
			Category:       "Crop Choice",
			Title:          "Plant Heat-Resistant Varieties",
			Description:    "Temperature trends suggest warmer than average season",
			Priority:       PriorityMedium,
			Recommendation: "Consider planting drought-resistant tomato varieties for the summer season.",
			ActionItems: []string{
				"Source drought-resistant seeds",
				"Prepare soil with extra organic matter",
				"Plan shade structures for peak summer",
			},
			Impact: "30% better yield in hot weather",
		},
		{
			ID:             "3",
			Category:       "Fertilizer Optimization",
			Title:          "Adjust Nitrogen Levels",
			Description:    "Soil tests show optimal timing for nutrient application",
			Priority:       PriorityMedium,
			Recommendation: "Apply organic nitrogen fertilizer in 2 weeks for optimal uptake.",
			ActionItems: []string{
				"Purchase organic nitrogen fertilizer",
				"Schedule application for early morning",
				"Test soil pH before application",
			},
			Impact: "15% increase in crop nutrition",
		},
		{
			ID:             "4",
			Category:       "Weather Alert",
			Title:          "Prepare for Heavy Rain",
			Description:    "Storm system approaching in 48 hours",
			Priority:       PriorityHigh,
			Recommendation: "Secure loose equipment and ensure proper drainage channels are clear.",
			ActionItems: []string{
				"Clear drainage ditches",
				"Secure greenhouse panels",
				"Harvest ready crops early",
			},
			Impact: "Prevent crop damage and flooding",
		},
		{
			ID:             "5",
			Category:       "Growth Monitoring",
			Title:          "Accelerated Growth Detected",
			Description:    "Lettuce crops showing 25% faster growth than expected",
			Priority:       PriorityLow,
			Recommendation: "Monitor closely for early harvest opportunity and plan next planting cycle.",
			ActionItems: []string{
				"Check crop maturity daily",
				"Prepare harvesting equipment",
				"Schedule next planting phase",
			},
			Impact: "Earlier harvest, increased profits",
		},
		{
			ID:             "6",
			Category:       "Pest Prevention",
			Title:          "Aphid Risk Increasing",
			Description:    "Weather conditions favor aphid reproduction",
			Priority:       PriorityMedium,
			Recommendation: "Deploy beneficial insects and increase plant monitoring frequency.",
			ActionItems: []string{
				"Release ladybugs in affected areas",
				"Apply neem oil preventively",
				"Increase daily crop inspections",
			},
			Impact: "Prevent pest infestation",
		},
	}
}
