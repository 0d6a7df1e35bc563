package dashboard

// The blind spot scanner is not backed by analysis: every request gets this
// catalogue regardless of the goals submitted.

var recommendationCatalogue = []string{
	"Allocate 20% of weekly research time to competitive analysis",
	"Implement automated alerts for customer health score changes",
	"Schedule monthly technical debt assessment meetings",
}

func missingAreaCatalogue() []MissingArea {
	return []MissingArea{
		{
			Title:       "Competitive Intelligence",
			Description: "Limited tracking of competitor product launches and pricing strategies",
			Priority:    "High",
			SuggestedActions: []string{
				"Set up Google Alerts for key competitors",
				"Subscribe to industry newsletters",
				"Schedule quarterly competitor analysis",
			},
		},
		{
			Title:       "Customer Success Metrics",
			Description: "Insufficient monitoring of customer health scores and churn indicators",
			Priority:    "Medium",
			SuggestedActions: []string{
				"Implement NPS tracking",
				"Create customer health dashboard",
				"Establish quarterly business reviews",
			},
		},
		{
			Title:       "Technical Debt Assessment",
			Description: "Lack of systematic evaluation of code quality and infrastructure scalability",
			Priority:    "Medium",
			SuggestedActions: []string{
				"Schedule monthly technical reviews",
				"Implement automated code quality metrics",
				"Create infrastructure scaling roadmap",
			},
		},
	}
}
