package views

import (
	"errors"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"
	"resolveai/storage"
	"resolveai/utils"

	"go.uber.org/zap"
)

// ProfileForm is the profile completion/edit form. Role is chosen once,
// on first completion, and locked afterwards.
type ProfileForm struct {
	Name            string
	Phone           string
	Bio             string
	AvatarURL       string
	Role            models.Role
	Specializations []string
	Availability    models.Availability
	Portfolio       []string
}

// ProfileEdit reads and writes the current user's own profile row. It
// branches between first-time insert (supplying the auth subject id and
// the chosen role) and update, based on whether a profile id is already
// known.
type ProfileEdit struct {
	lifetime
	viewState

	store  gateway.Store
	sess   *session.Coordinator
	images storage.Service
	nav    Navigator
	logger *zap.Logger

	existingID string
	roleLocked bool

	// Form is the profile form currently on screen.
	Form ProfileForm
}

func NewProfileEdit(store gateway.Store, sess *session.Coordinator, images storage.Service, nav Navigator) *ProfileEdit {
	return &ProfileEdit{
		lifetime: newLifetime(),
		store:    store,
		sess:     sess,
		images:   images,
		nav:      nav,
		logger:   utils.GetLogger(),
	}
}

// Load prefills the form from the session's loaded profile, when one
// exists. No remote read is needed: the coordinator already holds the
// row.
func (p *ProfileEdit) Load() error {
	user, hasProfile := p.sess.Current()
	if !hasProfile {
		p.setReady()
		return nil
	}

	profile := user.Profile()
	p.mu.Lock()
	p.existingID = profile.ID
	p.roleLocked = true
	p.Form = ProfileForm{
		Name:      profile.Name,
		Phone:     profile.Phone,
		Bio:       profile.Bio,
		AvatarURL: profile.AvatarURL,
		Role:      user.Role(),
	}
	if pro, ok := user.Professional(); ok {
		p.Form.Specializations = pro.Specializations
		p.Form.Availability = pro.Availability
		p.Form.Portfolio = pro.Portfolio
	}
	p.mu.Unlock()
	p.setReady()
	return nil
}

// RoleLocked reports whether the role field is editable. Once a profile
// row exists the role never changes.
func (p *ProfileEdit) RoleLocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roleLocked
}

// Save validates the form and either inserts the first profile row or
// patches the existing one. The saved row is routed through the session
// coordinator, never installed directly.
func (p *ProfileEdit) Save() error {
	p.mu.Lock()
	form := p.Form
	existingID := p.existingID
	p.mu.Unlock()

	if form.Name == "" {
		err := errors.New("informe seu nome")
		p.fail(err)
		return err
	}

	if existingID == "" {
		return p.insert(form)
	}
	return p.update(existingID, form)
}

func (p *ProfileEdit) insert(form ProfileForm) error {
	if form.Role != models.RoleClient && form.Role != models.RoleProfessional {
		err := errors.New("escolha entre cliente e profissional")
		p.fail(err)
		return err
	}
	subject := p.sess.AuthSubject()
	if subject == "" {
		err := errors.New("sessão expirada")
		p.fail(err)
		return err
	}

	row := models.Professional{
		UserProfile: models.UserProfile{
			AuthID:    subject,
			Name:      form.Name,
			Email:     p.sess.Email(),
			Phone:     form.Phone,
			Bio:       form.Bio,
			AvatarURL: form.AvatarURL,
			Role:      form.Role,
		},
	}
	if form.Role == models.RoleProfessional {
		row.Specializations = form.Specializations
		row.Availability = form.Availability
		row.Portfolio = form.Portfolio
		if row.Availability == "" {
			row.Availability = models.AvailabilityAvailable
		}
	}

	var created models.Professional
	if err := p.store.From("profiles").Single().Insert(p.Context(), row, &created); err != nil {
		if !p.Alive() {
			return errViewClosed
		}
		p.fail(err)
		return err
	}
	if !p.Alive() {
		return errViewClosed
	}

	p.mu.Lock()
	p.existingID = created.ID
	p.roleLocked = true
	p.mu.Unlock()
	p.sess.SetProfile(created)
	p.logger.Info("profile created", zap.String("role", string(created.Role)))
	p.afterSave(created.Role)
	return nil
}

func (p *ProfileEdit) update(id string, form ProfileForm) error {
	// Role deliberately absent from the patch: immutable once set.
	patch := map[string]any{
		"name":       form.Name,
		"phone":      form.Phone,
		"bio":        form.Bio,
		"avatar_url": form.AvatarURL,
	}
	if form.Role == models.RoleProfessional {
		patch["specializations"] = form.Specializations
		patch["availability"] = form.Availability
		patch["portfolio"] = form.Portfolio
	}

	var updated models.Professional
	if err := p.store.From("profiles").Eq("id", id).Single().Update(p.Context(), patch, &updated); err != nil {
		if !p.Alive() {
			return errViewClosed
		}
		p.fail(err)
		return err
	}
	if !p.Alive() {
		return errViewClosed
	}

	p.sess.SetProfile(updated)
	p.afterSave(updated.Role)
	return nil
}

func (p *ProfileEdit) afterSave(role models.Role) {
	if role == models.RoleProfessional {
		p.nav(ScreenDashboard, nil)
	} else {
		p.nav(ScreenClientHome, nil)
	}
}

// UploadAvatar uploads a local image and places its delivery URL in the
// form.
func (p *ProfileEdit) UploadAvatar(localPath string) error {
	if p.images == nil {
		return errors.New("armazenamento de imagens não configurado")
	}
	url, err := p.images.UploadImage(p.Context(), localPath, "avatars")
	if err != nil {
		p.fail(err)
		return err
	}
	p.mu.Lock()
	p.Form.AvatarURL = url
	p.mu.Unlock()
	return nil
}

// AddPortfolioImage uploads a portfolio image for a professional.
func (p *ProfileEdit) AddPortfolioImage(localPath string) error {
	if p.images == nil {
		return errors.New("armazenamento de imagens não configurado")
	}
	url, err := p.images.UploadImage(p.Context(), localPath, "portfolio")
	if err != nil {
		p.fail(err)
		return err
	}
	p.mu.Lock()
	p.Form.Portfolio = append(p.Form.Portfolio, url)
	p.mu.Unlock()
	return nil
}
