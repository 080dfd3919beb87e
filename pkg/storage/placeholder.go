package storage

import "aicd-directory/pkg/models"

// PlaceholderSections returns the fallback tree served while the backing
// medium is unreachable, so the public site always has something to render.
func PlaceholderSections() []models.Section {
	return []models.Section{
		{
			ID:    "fallback-section",
			Title: "Fallback Data (Offline Mode)",
			Categories: []models.Category{
				{
					ID:    "fallback-category",
					Title: "Database Connection Unavailable",
					Icon:  "⚠️",
					Count: 1,
					Items: []models.Item{
						{
							Slug:        "fallback-item",
							Title:       "Storage Connection Error",
							Description: "The site is currently running in offline mode because the data store is unreachable. Please try again later.",
							Type:        "info",
						},
					},
				},
			},
		},
	}
}
