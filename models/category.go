package models

// Category is one row of the static service taxonomy. Read-only from the
// client's perspective.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}
