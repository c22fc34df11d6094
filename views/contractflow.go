package views

import (
	"errors"
	"time"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"
	"resolveai/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContractStep is one step of the linear wizard.
type ContractStep int

const (
	StepServiceReview ContractStep = iota + 1
	StepChat
	StepClosing
)

// PaymentMethods offered on the client closing step. Selection is a
// front-end simulation only: no payment call ever reaches the gateway.
var PaymentMethods = []string{"pix", "credit_card", "cash"}

// ContractFlow is the 3-step contract wizard. A fresh flow starts from a
// service at step 1; reopening an existing contract always resumes at
// the chat step, since no step pointer is persisted.
type ContractFlow struct {
	lifetime
	viewState

	store  gateway.Store
	sess   *session.Coordinator
	nav    Navigator
	logger *zap.Logger

	serviceID  string
	contractID string

	service       *models.Service
	professional  *models.UserProfile
	contract      *models.Contract
	step          ContractStep
	note          string
	paymentMethod string
}

// NewContractFlow builds the wizard from navigation params: service_id
// for a new flow, contract_id to reopen an existing contract. Neither
// present is a terminal not-found state.
func NewContractFlow(store gateway.Store, sess *session.Coordinator, nav Navigator, params map[string]string) *ContractFlow {
	f := &ContractFlow{
		lifetime: newLifetime(),
		store:    store,
		sess:     sess,
		nav:      nav,
		logger:   utils.GetLogger(),
		step:     StepServiceReview,
	}
	f.serviceID = params["service_id"]
	f.contractID = params["contract_id"]
	if f.serviceID == "" && f.contractID == "" {
		f.failNotFound("contratação sem serviço selecionado")
	}
	return f
}

// Load fetches either the existing contract or the service being
// contracted.
func (f *ContractFlow) Load() error {
	if f.NotFound() {
		return gateway.ErrNotFound
	}
	if f.contractID != "" {
		return f.loadExisting()
	}
	return f.loadService()
}

func (f *ContractFlow) loadExisting() error {
	var contract models.Contract
	err := f.store.From("contracts").
		Select("*, service:services(*), professional:profiles(*), client:profiles(*)").
		Eq("id", f.contractID).
		Single().
		Get(f.Context(), &contract)
	if err != nil {
		if !f.Alive() {
			return errViewClosed
		}
		if errors.Is(err, gateway.ErrNotFound) {
			f.failNotFound("contratação não encontrada")
		} else {
			f.fail(err)
		}
		return err
	}
	if !f.Alive() {
		return errViewClosed
	}

	f.mu.Lock()
	f.contract = &contract
	f.service = contract.Service
	f.professional = contract.Professional
	// No step pointer is persisted; an existing contract resumes at chat.
	f.step = StepChat
	f.mu.Unlock()
	f.setReady()
	return nil
}

// serviceRow decodes a service row with its joined owner profile.
type serviceRow struct {
	models.Service
	Professional *models.UserProfile `json:"professional"`
}

func (f *ContractFlow) loadService() error {
	var row serviceRow
	err := f.store.From("services").
		Select("*, category:categories(*), professional:profiles(*)").
		Eq("id", f.serviceID).
		Single().
		Get(f.Context(), &row)
	if err != nil {
		if !f.Alive() {
			return errViewClosed
		}
		if errors.Is(err, gateway.ErrNotFound) {
			f.failNotFound("serviço não encontrado")
		} else {
			f.fail(err)
		}
		return err
	}
	if !f.Alive() {
		return errViewClosed
	}

	f.mu.Lock()
	f.service = &row.Service
	f.professional = row.Professional
	f.mu.Unlock()
	f.setReady()
	return nil
}

func (f *ContractFlow) Step() ContractStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *ContractFlow) Service() *models.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.service
}

func (f *ContractFlow) Contract() *models.Contract {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contract
}

// Next advances the wizard one step; it never skips and never runs past
// the closing step.
func (f *ContractFlow) Next() {
	f.mu.Lock()
	if f.step < StepClosing {
		f.step++
	}
	f.mu.Unlock()
}

// Back returns one step.
func (f *ContractFlow) Back() {
	f.mu.Lock()
	if f.step > StepServiceReview {
		f.step--
	}
	f.mu.Unlock()
}

// SetNote records the step-1 free text that seeds the conversation.
func (f *ContractFlow) SetNote(text string) {
	f.mu.Lock()
	f.note = text
	f.mu.Unlock()
}

// SelectPaymentMethod records the client's simulated payment choice.
func (f *ContractFlow) SelectPaymentMethod(method string) error {
	for _, m := range PaymentMethods {
		if m == method {
			f.mu.Lock()
			f.paymentMethod = method
			f.mu.Unlock()
			return nil
		}
	}
	return errors.New("forma de pagamento inválida")
}

// Submit closes the client path: one composite insert creating the
// contract with status requested, the price snapshotted from the service
// as fetched, and exactly one seeded chat message. The backend is
// trusted to accept the composite row atomically.
func (f *ContractFlow) Submit() (*models.Contract, error) {
	user, ok := f.sess.Current()
	if !ok || user.Role() != models.RoleClient {
		err := errors.New("apenas clientes podem solicitar uma contratação")
		f.fail(err)
		return nil, err
	}

	f.mu.Lock()
	service := f.service
	professional := f.professional
	note := f.note
	payment := f.paymentMethod
	f.mu.Unlock()

	if service == nil || professional == nil {
		err := errors.New("contratação ainda não carregada")
		f.fail(err)
		return nil, err
	}

	client := user.Profile()
	row := models.Contract{
		ClientID:       client.ID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		PriceAgreed:    service.Price,
		Status:         models.StatusRequested,
		PaymentMethod:  payment,
		Messages: []models.ChatMessage{{
			ID:       uuid.NewString(),
			SenderID: client.ID,
			Text:     note,
			SentAt:   time.Now(),
		}},
	}

	var created models.Contract
	if err := f.store.From("contracts").Single().Insert(f.Context(), row, &created); err != nil {
		if !f.Alive() {
			return nil, errViewClosed
		}
		f.fail(err)
		return nil, err
	}
	if !f.Alive() {
		return nil, errViewClosed
	}

	f.mu.Lock()
	f.contract = &created
	f.contractID = created.ID
	f.mu.Unlock()
	f.logger.Info("contract requested",
		zap.String("contract", created.ID),
		zap.String("service", service.ID),
	)
	return &created, nil
}

// SendMessage appends a chat message to an existing contract and merges
// the updated row.
func (f *ContractFlow) SendMessage(text string) error {
	if text == "" {
		return errors.New("mensagem vazia")
	}
	user, ok := f.sess.Current()
	if !ok {
		return errors.New("sessão expirada")
	}

	f.mu.Lock()
	contract := f.contract
	f.mu.Unlock()
	if contract == nil {
		return errors.New("a conversa começa após a solicitação")
	}

	messages := append(append([]models.ChatMessage{}, contract.Messages...), models.ChatMessage{
		ID:       uuid.NewString(),
		SenderID: user.Profile().ID,
		Text:     text,
		SentAt:   time.Now(),
	})

	patch := map[string]any{"messages": messages}
	var updated models.Contract
	if err := f.store.From("contracts").Eq("id", contract.ID).Single().Update(f.Context(), patch, &updated); err != nil {
		if !f.Alive() {
			return errViewClosed
		}
		f.fail(err)
		return err
	}
	if !f.Alive() {
		return errViewClosed
	}

	f.mu.Lock()
	if updated.Service == nil {
		updated.Service = contract.Service
	}
	if updated.Professional == nil {
		updated.Professional = contract.Professional
	}
	if updated.Client == nil {
		updated.Client = contract.Client
	}
	f.contract = &updated
	f.mu.Unlock()
	return nil
}

// Advance moves the contract's status through the central transition
// table. Used by the professional (accept, progress) and the client
// (confirm completion after the simulated payment).
func (f *ContractFlow) Advance(next models.ContractStatus) error {
	f.mu.Lock()
	contract := f.contract
	f.mu.Unlock()
	if contract == nil {
		return errors.New("contratação ainda não existe")
	}
	if err := (&models.Contract{Status: contract.Status}).Transition(next); err != nil {
		f.fail(err)
		return err
	}

	patch := map[string]any{"status": next}
	var updated models.Contract
	if err := f.store.From("contracts").Eq("id", contract.ID).Single().Update(f.Context(), patch, &updated); err != nil {
		if !f.Alive() {
			return errViewClosed
		}
		f.fail(err)
		return err
	}
	if !f.Alive() {
		return errViewClosed
	}

	f.mu.Lock()
	if updated.Service == nil {
		updated.Service = contract.Service
	}
	if updated.Professional == nil {
		updated.Professional = contract.Professional
	}
	if updated.Client == nil {
		updated.Client = contract.Client
	}
	f.contract = &updated
	f.mu.Unlock()
	return nil
}

// BackToSafety leaves a not-found state for the browsing screen.
func (f *ContractFlow) BackToSafety() {
	f.nav(ScreenClientHome, nil)
}
