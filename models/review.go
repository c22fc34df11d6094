package models

import (
	"math"
	"time"
)

// Review is immutable once created. Author name and avatar are
// denormalized snapshots taken at submission time.
type Review struct {
	ID             string    `json:"id,omitempty"`
	ProfessionalID string    `json:"professional_id"`
	ServiceID      string    `json:"service_id"`
	AuthorID       string    `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	AuthorAvatar   string    `json:"author_avatar,omitempty"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	EmojiTags      []string  `json:"emoji_tags,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

// AverageRating is the arithmetic mean of the review ratings rounded to
// one decimal, computed at read time. It is never persisted.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
