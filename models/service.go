package models

import (
	"fmt"
	"time"
)

// PricingMode discriminates how a service is charged.
type PricingMode string

const (
	PricingFixed  PricingMode = "fixed"
	PricingHourly PricingMode = "hourly"
)

// Service is owned by exactly one professional and references one
// category.
type Service struct {
	ID             string      `json:"id,omitempty"`
	ProfessionalID string      `json:"professional_id,omitempty"`
	CategoryID     string      `json:"category_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Price          float64     `json:"price"`
	PricingMode    PricingMode `json:"pricing_mode"`
	Tags           []string    `json:"tags,omitempty"`
	Images         []string    `json:"images,omitempty"`
	DurationMin    int         `json:"duration_minutes,omitempty"`
	CreatedAt      time.Time   `json:"created_at,omitzero"`

	// Category holds the joined taxonomy row when the read selects it.
	Category *Category `json:"category,omitempty"`
}

// DisplayPrice formats the price for display. Hourly services always get
// the per-hour suffix, fixed-price services never do.
func (s Service) DisplayPrice() string {
	price := fmt.Sprintf("R$ %.2f", s.Price)
	if s.PricingMode == PricingHourly {
		return price + "/h"
	}
	return price
}
