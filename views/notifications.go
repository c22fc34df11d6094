package views

import (
	"errors"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"
)

// Notifications lists the current user's notifications newest-first.
// Marking one read is a single-row update merged locally; a deep link on
// a notification drives navigation with its embedded params.
type Notifications struct {
	lifetime
	viewState

	store gateway.Store
	sess  *session.Coordinator
	nav   Navigator

	items []models.AppNotification
}

func NewNotifications(store gateway.Store, sess *session.Coordinator, nav Navigator) *Notifications {
	return &Notifications{
		lifetime: newLifetime(),
		store:    store,
		sess:     sess,
		nav:      nav,
	}
}

func (n *Notifications) Load() error {
	user, ok := n.sess.Current()
	if !ok {
		err := errors.New("faça login para ver suas notificações")
		n.failNotFound(err.Error())
		return err
	}

	var items []models.AppNotification
	err := n.store.From("notifications").
		Select("*").
		Eq("user_id", user.Profile().ID).
		Order("created_at", false).
		Get(n.Context(), &items)
	if err != nil {
		if !n.Alive() {
			return errViewClosed
		}
		n.fail(err)
		return err
	}
	if !n.Alive() {
		return errViewClosed
	}

	n.mu.Lock()
	n.items = items
	n.mu.Unlock()
	n.setReady()
	return nil
}

func (n *Notifications) Items() []models.AppNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.items
}

// Unread counts the notifications not yet marked read.
func (n *Notifications) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, item := range n.items {
		if !item.IsRead {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read. Idempotent: an already-read
// notification stays read and no call is issued.
func (n *Notifications) MarkRead(id string) error {
	n.mu.Lock()
	var target *models.AppNotification
	for i := range n.items {
		if n.items[i].ID == id {
			target = &n.items[i]
			break
		}
	}
	if target == nil {
		n.mu.Unlock()
		return errors.New("notificação não encontrada")
	}
	if target.IsRead {
		n.mu.Unlock()
		return nil
	}
	n.mu.Unlock()

	patch := map[string]any{"is_read": true}
	var updated models.AppNotification
	if err := n.store.From("notifications").Eq("id", id).Single().Update(n.Context(), patch, &updated); err != nil {
		if !n.Alive() {
			return errViewClosed
		}
		n.fail(err)
		return err
	}
	if !n.Alive() {
		return errViewClosed
	}

	n.mu.Lock()
	n.items = UpsertByID(n.items, updated, func(m models.AppNotification) string { return m.ID })
	n.mu.Unlock()
	return nil
}

// Open marks the notification read and follows its deep link, when it
// carries one.
func (n *Notifications) Open(id string) error {
	if err := n.MarkRead(id); err != nil {
		return err
	}

	n.mu.Lock()
	var link *models.DeepLink
	for _, item := range n.items {
		if item.ID == id {
			link = item.Link
			break
		}
	}
	n.mu.Unlock()

	if link != nil {
		n.nav(link.Screen, link.Params)
	}
	return nil
}
