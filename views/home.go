package views

import (
	"resolveai/gateway"
	"resolveai/models"
	"resolveai/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ClientHome is the browsing screen for clients: the category strip, a
// page of professionals and a derived "popular services" list. Search
// terms trigger a fresh remote read; category selection filters the
// already-fetched set in memory.
type ClientHome struct {
	lifetime
	viewState

	store  gateway.Store
	nav    Navigator
	logger *zap.Logger

	pageSize     int
	popularLimit int

	categories       []models.Category
	professionals    []models.Professional
	selectedCategory string
	searchTerm       string
}

func NewClientHome(store gateway.Store, nav Navigator, pageSize, popularLimit int) *ClientHome {
	return &ClientHome{
		lifetime:     newLifetime(),
		store:        store,
		nav:          nav,
		logger:       utils.GetLogger(),
		pageSize:     pageSize,
		popularLimit: popularLimit,
	}
}

// Load issues the two mount reads concurrently and renders nothing until
// both settle.
func (h *ClientHome) Load() error {
	g, ctx := errgroup.WithContext(h.Context())

	var categories []models.Category
	g.Go(func() error {
		return h.store.From("categories").Select("*").Order("name", true).Get(ctx, &categories)
	})

	var professionals []models.Professional
	g.Go(func() error {
		return h.professionalsQuery().Get(ctx, &professionals)
	})

	if err := g.Wait(); err != nil {
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
	h.categories = categories
	h.professionals = professionals
	h.mu.Unlock()
	h.setReady()
	return nil
}

func (h *ClientHome) professionalsQuery() *gateway.Query {
	q := h.store.From("profiles").
		Select("*, services(*)").
		Eq("role", string(models.RoleProfessional)).
		Limit(h.pageSize)
	if h.searchTerm != "" {
		q = q.Or(
			gateway.IlikeCond("name", "*"+h.searchTerm+"*"),
			gateway.ContainsCond("specializations", h.searchTerm),
		)
	}
	return q
}

// Search re-queries professionals remotely for the given term. The
// category selection survives a search.
func (h *ClientHome) Search(term string) error {
	h.mu.Lock()
	h.searchTerm = term
	h.status = StatusLoading
	h.mu.Unlock()

	var professionals []models.Professional
	if err := h.professionalsQuery().Get(h.Context(), &professionals); err != nil {
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
	h.professionals = professionals
	h.mu.Unlock()
	h.setReady()
	return nil
}

// SelectCategory filters the fetched set in memory. An empty id clears
// the filter.
func (h *ClientHome) SelectCategory(categoryID string) {
	h.mu.Lock()
	h.selectedCategory = categoryID
	h.mu.Unlock()
}

func (h *ClientHome) Categories() []models.Category {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.categories
}

// Professionals returns the fetched page, narrowed to professionals with
// at least one service in the selected category.
func (h *ClientHome) Professionals() []models.Professional {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selectedCategory == "" {
		return h.professionals
	}
	var filtered []models.Professional
	for _, p := range h.professionals {
		for _, s := range p.Services {
			if s.CategoryID == h.selectedCategory {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// PopularServices returns the first services encountered across the
// fetched professionals, up to the configured limit. Display order only,
// no popularity signal is computed.
func (h *ClientHome) PopularServices() []models.Service {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []models.Service
	for _, p := range h.professionals {
		for _, s := range p.Services {
			out = append(out, s)
			if len(out) == h.popularLimit {
				return out
			}
		}
	}
	return out
}

// OpenProfessional navigates to a professional's public profile.
func (h *ClientHome) OpenProfessional(professionalID string) {
	h.nav(ScreenProfessionalProfile, map[string]string{"professional_id": professionalID})
}
