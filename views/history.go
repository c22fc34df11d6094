package views

import (
	"errors"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"
)

// History lists every contract of the current user, newest first, with
// the counterpart's name and the service title joined for display.
type History struct {
	lifetime
	viewState

	store gateway.Store
	sess  *session.Coordinator
	nav   Navigator

	contracts []models.Contract
}

func NewHistory(store gateway.Store, sess *session.Coordinator, nav Navigator) *History {
	return &History{
		lifetime: newLifetime(),
		store:    store,
		sess:     sess,
		nav:      nav,
	}
}

func (h *History) Load() error {
	user, ok := h.sess.Current()
	if !ok {
		err := errors.New("faça login para ver seu histórico")
		h.failNotFound(err.Error())
		return err
	}

	ownerColumn := "client_id"
	if user.Role() == models.RoleProfessional {
		ownerColumn = "professional_id"
	}

	var contracts []models.Contract
	err := h.store.From("contracts").
		Select("*, client:profiles(name,avatar_url), professional:profiles(name,avatar_url), service:services(title)").
		Eq(ownerColumn, user.Profile().ID).
		Order("created_at", false).
		Get(h.Context(), &contracts)
	if err != nil {
		if !h.Alive() {
			return errViewClosed
		}
		h.fail(err)
		return err
	}
	if !h.Alive() {
		return errViewClosed
	}

	h.mu.Lock()
	h.contracts = contracts
	h.mu.Unlock()
	h.setReady()
	return nil
}

func (h *History) Contracts() []models.Contract {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.contracts
}

// Open reopens a contract in the wizard, which resumes at the chat step.
func (h *History) Open(contractID string) {
	h.nav(ScreenContractFlow, map[string]string{"contract_id": contractID})
}
