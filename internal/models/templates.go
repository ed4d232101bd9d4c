package models

import "time"

var seededAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultTemplates returns the presets a fresh store starts with
func DefaultTemplates() []Template {
	return []Template{
		{
			ID:              "1",
			Name:            "Blog Post Template",
			Title:           "New Blog Post",
			Description:     "Write an engaging blog post about [topic]",
			WordCountTarget: 1000,
			DeadlineDays:    7,
			CreatedAt:       seededAt,
			UpdatedAt:       seededAt,
		},
		{
			ID:              "2",
			Name:            "Article Template",
			Title:           "Research Article",
			Description:     "In-depth article covering [subject] with research and analysis",
			WordCountTarget: 2500,
			DeadlineDays:    14,
			CreatedAt:       seededAt,
			UpdatedAt:       seededAt,
		},
		{
			ID:              "3",
			Name:            "Social Media Post",
			Title:           "Social Media Content",
			Description:     "Engaging social media post for [platform]",
			WordCountTarget: 150,
			DeadlineDays:    1,
			CreatedAt:       seededAt,
			UpdatedAt:       seededAt,
		},
	}
}
