package views

import (
	"errors"

	"resolveai/ai"
	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"
	"resolveai/storage"
	"resolveai/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ServiceInput is the dashboard's service form. Validation runs locally
// before any remote call is issued.
type ServiceInput struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	Price       float64
	PricingMode models.PricingMode
	Tags        []string
	Images      []string
	DurationMin int
}

// Validate rejects a form missing title, category or a positive price.
func (in ServiceInput) Validate() error {
	if in.Title == "" {
		return errors.New("informe um título para o serviço")
	}
	if in.CategoryID == "" {
		return errors.New("selecione uma categoria")
	}
	if in.Price <= 0 {
		return errors.New("informe um preço válido")
	}
	return nil
}

// Dashboard is the professional's working screen: own services, recent
// notifications and open contracts, fetched concurrently on mount.
type Dashboard struct {
	lifetime
	viewState

	store  gateway.Store
	sess   *session.Coordinator
	gen    ai.Generator
	images storage.Service
	nav    Navigator
	logger *zap.Logger

	profile       models.Professional
	services      []models.Service
	notifications []models.AppNotification
	contracts     []models.Contract

	// Form is the service create/edit form currently on screen.
	Form ServiceInput
}

func NewDashboard(store gateway.Store, sess *session.Coordinator, gen ai.Generator, images storage.Service, nav Navigator) *Dashboard {
	return &Dashboard{
		lifetime: newLifetime(),
		store:    store,
		sess:     sess,
		gen:      gen,
		images:   images,
		nav:      nav,
		logger:   utils.GetLogger(),
	}
}

// Load issues the four mount reads concurrently and waits for all of
// them before rendering.
func (d *Dashboard) Load() error {
	pro, ok := d.sess.Professional()
	if !ok {
		err := errors.New("apenas profissionais acessam o painel")
		d.failNotFound(err.Error())
		return err
	}

	g, ctx := errgroup.WithContext(d.Context())

	var profile models.Professional
	g.Go(func() error {
		return d.store.From("profiles").
			Select("*").
			Eq("id", pro.ID).
			Single().
			Get(ctx, &profile)
	})

	var services []models.Service
	g.Go(func() error {
		return d.store.From("services").
			Select("*, category:categories(*)").
			Eq("professional_id", pro.ID).
			Order("created_at", false).
			Get(ctx, &services)
	})

	var notifications []models.AppNotification
	g.Go(func() error {
		return d.store.From("notifications").
			Select("*").
			Eq("user_id", pro.ID).
			Order("created_at", false).
			Limit(10).
			Get(ctx, &notifications)
	})

	var contracts []models.Contract
	g.Go(func() error {
		return d.store.From("contracts").
			Select("*, client:profiles(name,avatar_url), service:services(title)").
			Eq("professional_id", pro.ID).
			In("status",
				string(models.StatusRequested),
				string(models.StatusAccepted),
				string(models.StatusInProgress),
				string(models.StatusPendingPayment),
			).
			Order("created_at", false).
			Get(ctx, &contracts)
	})

	if err := g.Wait(); err != nil {
		if !d.Alive() {
			return errViewClosed
		}
		d.fail(err)
		return err
	}
	if !d.Alive() {
		return errViewClosed
	}

	d.mu.Lock()
	d.profile = profile
	d.services = services
	d.notifications = notifications
	d.contracts = contracts
	d.mu.Unlock()
	d.setReady()
	return nil
}

func (d *Dashboard) Profile() models.Professional {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profile
}

func (d *Dashboard) Services() []models.Service {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.services
}

func (d *Dashboard) Notifications() []models.AppNotification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notifications
}

func (d *Dashboard) Contracts() []models.Contract {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contracts
}

func serviceID(s models.Service) string { return s.ID }

// CreateService validates the form locally, inserts the row and merges
// the created row into the local list.
func (d *Dashboard) CreateService(in ServiceInput) error {
	if err := in.Validate(); err != nil {
		d.fail(err)
		return err
	}
	pro, ok := d.sess.Professional()
	if !ok {
		return errors.New("sessão expirada")
	}

	row := models.Service{
		ProfessionalID: pro.ID,
		CategoryID:     in.CategoryID,
		Title:          in.Title,
		Description:    in.Description,
		Price:          in.Price,
		PricingMode:    in.PricingMode,
		Tags:           in.Tags,
		Images:         in.Images,
		DurationMin:    in.DurationMin,
	}
	if row.PricingMode == "" {
		row.PricingMode = models.PricingFixed
	}

	var created models.Service
	if err := d.store.From("services").Single().Insert(d.Context(), row, &created); err != nil {
		if !d.Alive() {
			return errViewClosed
		}
		d.fail(err)
		return err
	}
	if !d.Alive() {
		return errViewClosed
	}

	d.mu.Lock()
	d.services = UpsertByID(d.services, created, serviceID)
	d.mu.Unlock()
	return nil
}

// UpdateService validates and patches an existing service. The patched
// row comes back without its category join, so the previous joined
// category is re-attached before the merge.
func (d *Dashboard) UpdateService(in ServiceInput) error {
	if in.ID == "" {
		return errors.New("serviço sem identificador")
	}
	if err := in.Validate(); err != nil {
		d.fail(err)
		return err
	}

	patch := map[string]any{
		"title":            in.Title,
		"description":      in.Description,
		"category_id":      in.CategoryID,
		"price":            in.Price,
		"pricing_mode":     in.PricingMode,
		"tags":             in.Tags,
		"images":           in.Images,
		"duration_minutes": in.DurationMin,
	}

	var updated models.Service
	if err := d.store.From("services").Eq("id", in.ID).Single().Update(d.Context(), patch, &updated); err != nil {
		if !d.Alive() {
			return errViewClosed
		}
		d.fail(err)
		return err
	}
	if !d.Alive() {
		return errViewClosed
	}

	d.mu.Lock()
	if updated.Category == nil {
		for _, prev := range d.services {
			if prev.ID == updated.ID && prev.CategoryID == updated.CategoryID {
				updated.Category = prev.Category
				break
			}
		}
	}
	d.services = UpsertByID(d.services, updated, serviceID)
	d.mu.Unlock()
	return nil
}

// DeleteService removes the row remotely and locally.
func (d *Dashboard) DeleteService(id string) error {
	if err := d.store.From("services").Eq("id", id).Delete(d.Context()); err != nil {
		if !d.Alive() {
			return errViewClosed
		}
		d.fail(err)
		return err
	}
	if !d.Alive() {
		return errViewClosed
	}
	d.mu.Lock()
	d.services = RemoveByID(d.services, id, serviceID)
	d.mu.Unlock()
	return nil
}

// SetAvailability applies the new status optimistically and rolls the
// local value back if the mutation fails.
func (d *Dashboard) SetAvailability(next models.Availability) error {
	d.mu.Lock()
	previous := d.profile.Availability
	d.profile.Availability = next
	id := d.profile.ID
	d.mu.Unlock()

	patch := map[string]any{"availability": next}
	if err := d.store.From("profiles").Eq("id", id).Single().Update(d.Context(), patch, nil); err != nil {
		if !d.Alive() {
			return errViewClosed
		}
		d.mu.Lock()
		d.profile.Availability = previous
		d.mu.Unlock()
		d.fail(err)
		return err
	}
	return nil
}

// GenerateDescription asks the text generator for copy from the form's
// title and tags and overwrites the form's description with the result.
func (d *Dashboard) GenerateDescription() string {
	text := d.gen.GenerateDescription(d.Context(), d.Form.Title, d.Form.Tags, d.Form.Description)
	d.Form.Description = text
	return text
}

// AttachImage uploads a local file and appends its delivery URL to the
// form.
func (d *Dashboard) AttachImage(localPath string) error {
	if d.images == nil {
		return errors.New("armazenamento de imagens não configurado")
	}
	url, err := d.images.UploadImage(d.Context(), localPath, "services")
	if err != nil {
		d.fail(err)
		return err
	}
	d.Form.Images = append(d.Form.Images, url)
	return nil
}

// AcceptContract moves a requested contract to accepted through the
// central transition table and merges the updated row.
func (d *Dashboard) AcceptContract(contractID string) error {
	return d.advanceContract(contractID, models.StatusAccepted)
}

func (d *Dashboard) advanceContract(contractID string, next models.ContractStatus) error {
	d.mu.Lock()
	var current models.ContractStatus
	found := false
	for i := range d.contracts {
		if d.contracts[i].ID == contractID {
			current = d.contracts[i].Status
			found = true
			break
		}
	}
	d.mu.Unlock()
	if !found {
		return errors.New("contrato não encontrado")
	}
	if err := (&models.Contract{Status: current}).Transition(next); err != nil {
		d.fail(err)
		return err
	}

	patch := map[string]any{"status": next}
	var updated models.Contract
	if err := d.store.From("contracts").Eq("id", contractID).Single().Update(d.Context(), patch, &updated); err != nil {
		if !d.Alive() {
			return errViewClosed
		}
		d.fail(err)
		return err
	}
	if !d.Alive() {
		return errViewClosed
	}

	d.mu.Lock()
	d.contracts = UpsertByID(d.contracts, updated, func(c models.Contract) string { return c.ID })
	d.mu.Unlock()
	d.logger.Info("contract status updated",
		zap.String("contract", contractID),
		zap.String("status", string(next)),
	)
	return nil
}
