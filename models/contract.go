package models

import (
	"fmt"
	"time"
)

// ContractStatus is one step of the contract progression.
type ContractStatus string

const (
	StatusRequested      ContractStatus = "requested"
	StatusAccepted       ContractStatus = "accepted"
	StatusInProgress     ContractStatus = "in_progress"
	StatusPendingPayment ContractStatus = "pending_payment"
	StatusCompleted      ContractStatus = "completed"
	StatusCancelled      ContractStatus = "cancelled"
)

// contractTransitions is the single transition table for contract
// statuses. Cancellation from any non-terminal status is handled by
// CanTransition rather than listed per status.
var contractTransitions = map[ContractStatus][]ContractStatus{
	StatusRequested:      {StatusAccepted},
	StatusAccepted:       {StatusInProgress},
	StatusInProgress:     {StatusPendingPayment, StatusCompleted},
	StatusPendingPayment: {StatusCompleted},
}

// Terminal reports whether no further transition is possible.
func (s ContractStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is allowed.
func (s ContractStatus) CanTransition(next ContractStatus) bool {
	if next == StatusCancelled {
		return !s.Terminal()
	}
	for _, allowed := range contractTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Color returns the display color associated with a status. Display
// mapping only, nothing downstream depends on it.
func (s ContractStatus) Color() string {
	switch s {
	case StatusRequested:
		return "#F59E0B"
	case StatusAccepted:
		return "#3B82F6"
	case StatusInProgress:
		return "#8B5CF6"
	case StatusPendingPayment:
		return "#F97316"
	case StatusCompleted:
		return "#22C55E"
	case StatusCancelled:
		return "#EF4444"
	default:
		return "#6B7280"
	}
}

// ChatMessage is one entry of a contract's embedded conversation.
type ChatMessage struct {
	ID       string    `json:"id"`
	SenderID string    `json:"sender_id"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}

// Contract binds one client, one professional and one service.
// PriceAgreed is denormalized from the service at creation time and is
// never touched by later service price edits.
type Contract struct {
	ID             string         `json:"id,omitempty"`
	ClientID       string         `json:"client_id"`
	ProfessionalID string         `json:"professional_id"`
	ServiceID      string         `json:"service_id"`
	PriceAgreed    float64        `json:"price_agreed"`
	Status         ContractStatus `json:"status"`
	PaymentMethod  string         `json:"payment_method,omitempty"`
	Messages       []ChatMessage  `json:"messages"`
	CreatedAt      time.Time      `json:"created_at,omitzero"`

	// Joined display rows, populated only when the read selects them.
	Client       *UserProfile `json:"client,omitempty"`
	Professional *UserProfile `json:"professional,omitempty"`
	Service      *Service     `json:"service,omitempty"`
}

// Transition validates and applies a status change. Every status
// mutation goes through here before a remote update is issued.
func (c *Contract) Transition(next ContractStatus) error {
	if !c.Status.CanTransition(next) {
		return fmt.Errorf("contrato não pode mudar de %q para %q", c.Status, next)
	}
	c.Status = next
	return nil
}

// CounterpartName returns the joined name of the other party, from the
// perspective of the given role.
func (c *Contract) CounterpartName(viewer Role) string {
	if viewer == RoleClient {
		if c.Professional != nil {
			return c.Professional.Name
		}
	} else if c.Client != nil {
		return c.Client.Name
	}
	return ""
}
