package views

import (
	"errors"
	"fmt"

	"resolveai/config"
	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"
	"resolveai/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfessionalProfile is a professional's public page: profile, services
// with their categories, and reviews newest-first. The average rating is
// computed locally from the fetched reviews.
type ProfessionalProfile struct {
	lifetime
	viewState

	store        gateway.Store
	sess         *session.Coordinator
	nav          Navigator
	logger       *zap.Logger
	reviewTarget string

	professionalID string
	professional   *models.Professional
	services       []models.Service
	reviews        []models.Review
}

// NewProfessionalProfile builds the view from navigation params. A
// missing professional_id is a terminal not-found state with a way back.
func NewProfessionalProfile(store gateway.Store, sess *session.Coordinator, nav Navigator, params map[string]string) *ProfessionalProfile {
	v := &ProfessionalProfile{
		lifetime:     newLifetime(),
		store:        store,
		sess:         sess,
		nav:          nav,
		logger:       utils.GetLogger(),
		reviewTarget: config.AppConfig.ReviewTarget,
	}
	v.professionalID = params["professional_id"]
	if v.professionalID == "" {
		v.failNotFound("profissional não encontrado")
	}
	return v
}

// Load issues the three mount reads concurrently.
func (v *ProfessionalProfile) Load() error {
	if v.NotFound() {
		return gateway.ErrNotFound
	}
	g, ctx := errgroup.WithContext(v.Context())

	var professional models.Professional
	g.Go(func() error {
		return v.store.From("profiles").
			Select("*").
			Eq("id", v.professionalID).
			Single().
			Get(ctx, &professional)
	})

	var services []models.Service
	g.Go(func() error {
		return v.store.From("services").
			Select("*, category:categories(*)").
			Eq("professional_id", v.professionalID).
			Get(ctx, &services)
	})

	var reviews []models.Review
	g.Go(func() error {
		return v.store.From("reviews").
			Select("*").
			Eq("professional_id", v.professionalID).
			Order("created_at", false).
			Get(ctx, &reviews)
	})

	if err := g.Wait(); err != nil {
		if !v.Alive() {
			return errViewClosed
		}
		if errors.Is(err, gateway.ErrNotFound) {
			v.failNotFound("profissional não encontrado")
		} else {
			v.fail(err)
		}
		return err
	}
	if !v.Alive() {
		return errViewClosed
	}

	v.mu.Lock()
	v.professional = &professional
	v.services = services
	v.reviews = reviews
	v.mu.Unlock()
	v.setReady()
	return nil
}

func (v *ProfessionalProfile) Professional() *models.Professional {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.professional
}

func (v *ProfessionalProfile) Services() []models.Service {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.services
}

func (v *ProfessionalProfile) Reviews() []models.Review {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reviews
}

// AverageRating is computed from the fetched reviews, never persisted.
func (v *ProfessionalProfile) AverageRating() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return models.AverageRating(v.reviews)
}

// ReviewInput is a review submission. ServiceID is honored only under
// the selected-service policy.
type ReviewInput struct {
	Rating    int
	Comment   string
	EmojiTags []string
	ServiceID string
}

// SubmitReview inserts the review and prepends it to the local list. The
// target service follows the configured policy: the professional's first
// listed service, or the caller's explicit choice.
func (v *ProfessionalProfile) SubmitReview(in ReviewInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		err := errors.New("a avaliação deve ser entre 1 e 5")
		v.fail(err)
		return err
	}
	user, ok := v.sess.Current()
	if !ok {
		err := errors.New("faça login para avaliar")
		v.fail(err)
		return err
	}

	serviceID, err := v.targetService(in.ServiceID)
	if err != nil {
		v.fail(err)
		return err
	}

	author := user.Profile()
	review := models.Review{
		ProfessionalID: v.professionalID,
		ServiceID:      serviceID,
		AuthorID:       author.ID,
		AuthorName:     author.Name,
		AuthorAvatar:   author.AvatarURL,
		Rating:         in.Rating,
		Comment:        in.Comment,
		EmojiTags:      in.EmojiTags,
	}

	var created models.Review
	if err := v.store.From("reviews").Single().Insert(v.Context(), review, &created); err != nil {
		if !v.Alive() {
			return errViewClosed
		}
		v.fail(err)
		return err
	}
	if !v.Alive() {
		return errViewClosed
	}

	v.mu.Lock()
	v.reviews = PrependByID(v.reviews, created, func(r models.Review) string { return r.ID })
	v.mu.Unlock()
	return nil
}

func (v *ProfessionalProfile) targetService(explicit string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.reviewTarget == config.ReviewTargetSelectedService {
		if explicit == "" {
			return "", errors.New("selecione o serviço avaliado")
		}
		for _, s := range v.services {
			if s.ID == explicit {
				return explicit, nil
			}
		}
		return "", fmt.Errorf("serviço não pertence a este profissional")
	}
	if len(v.services) == 0 {
		return "", errors.New("este profissional ainda não tem serviços para avaliar")
	}
	return v.services[0].ID, nil
}

// StartContract navigates into the contract wizard for a service.
func (v *ProfessionalProfile) StartContract(serviceID string) {
	v.nav(ScreenContractFlow, map[string]string{"service_id": serviceID})
}

// BackToSafety returns to the browsing screen from a not-found state.
func (v *ProfessionalProfile) BackToSafety() {
	v.nav(ScreenClientHome, nil)
}
