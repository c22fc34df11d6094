package views

import (
	"errors"
	"sync"
	"testing"

	"resolveai/gateway"
	"resolveai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flowStore keeps a mutable service price so the snapshot property can
// be exercised.
type flowStore struct {
	*fakeStore
	mu           sync.Mutex
	servicePrice float64
}

func newFlowStore() *flowStore {
	fs := &flowStore{servicePrice: 80}
	fs.fakeStore = &fakeStore{responder: func(op gateway.Op, q *gateway.Query, body any) (any, error) {
		switch q.Table() {
		case "services":
			fs.mu.Lock()
			price := fs.servicePrice
			fs.mu.Unlock()
			return map[string]any{
				"id":              "s1",
				"professional_id": "p1",
				"category_id":     "cat1",
				"title":           "Troca de Chuveiro",
				"price":           price,
				"pricing_mode":    "fixed",
				"professional":    map[string]any{"id": "p1", "name": "Carlos"},
			}, nil
		case "contracts":
			switch op {
			case gateway.OpInsert:
				created, _ := body.(models.Contract)
				created.ID = "c9"
				return created, nil
			case gateway.OpUpdate:
				patch, _ := body.(map[string]any)
				updated := models.Contract{ID: "c1", Status: models.StatusRequested}
				if status, ok := patch["status"]; ok {
					updated.Status = status.(models.ContractStatus)
				}
				if messages, ok := patch["messages"]; ok {
					updated.Messages = messages.([]models.ChatMessage)
				}
				return updated, nil
			}
			return models.Contract{
				ID:             "c1",
				ClientID:       "u1",
				ProfessionalID: "p1",
				ServiceID:      "s1",
				PriceAgreed:    80,
				Status:         models.StatusRequested,
				Messages: []models.ChatMessage{
					{ID: "m1", SenderID: "u1", Text: "Preciso trocar meu chuveiro"},
				},
				Service:      &models.Service{ID: "s1", Title: "Troca de Chuveiro"},
				Professional: &models.UserProfile{ID: "p1", Name: "Carlos"},
			}, nil
		}
		return nil, errors.New("unexpected table " + q.Table())
	}}
	return fs
}

func (f *flowStore) setPrice(p float64) {
	f.mu.Lock()
	f.servicePrice = p
	f.mu.Unlock()
}

func TestContractFlowWizardSubmission(t *testing.T) {
	store := newFlowStore()
	f := NewContractFlow(store, clientCoordinator(t), noNav(t), map[string]string{"service_id": "s1"})
	require.NoError(t, f.Load())
	require.Equal(t, StepServiceReview, f.Step())

	f.SetNote("Preciso trocar meu chuveiro amanhã cedo")
	f.Next()
	assert.Equal(t, StepChat, f.Step())
	f.Next()
	assert.Equal(t, StepClosing, f.Step())
	f.Next()
	assert.Equal(t, StepClosing, f.Step(), "the wizard never runs past the closing step")

	require.NoError(t, f.SelectPaymentMethod("pix"))
	created, err := f.Submit()
	require.NoError(t, err)

	assert.Equal(t, models.StatusRequested, created.Status)
	assert.Equal(t, "u1", created.ClientID)
	assert.Equal(t, "p1", created.ProfessionalID)
	assert.Equal(t, "s1", created.ServiceID)
	assert.InDelta(t, 80, created.PriceAgreed, 0.001)
	require.Len(t, created.Messages, 1, "exactly one seeded chat message")
	assert.Equal(t, "Preciso trocar meu chuveiro amanhã cedo", created.Messages[0].Text)
	assert.Equal(t, "u1", created.Messages[0].SenderID)

	last := store.lastCall()
	assert.Equal(t, gateway.OpInsert, last.op)
	assert.Equal(t, "contracts", last.query.Table())
}

func TestContractPriceSnapshotIgnoresLaterEdits(t *testing.T) {
	store := newFlowStore()
	f := NewContractFlow(store, clientCoordinator(t), noNav(t), map[string]string{"service_id": "s1"})
	require.NoError(t, f.Load())
	f.SetNote("ok")

	// The professional raises the price after the client loaded the flow.
	store.setPrice(200)

	created, err := f.Submit()
	require.NoError(t, err)
	assert.InDelta(t, 80, created.PriceAgreed, 0.001, "price snapshotted at load, not re-read")
}

func TestContractFlowReopensAtChat(t *testing.T) {
	store := newFlowStore()
	f := NewContractFlow(store, clientCoordinator(t), noNav(t), map[string]string{"contract_id": "c1"})
	require.NoError(t, f.Load())

	assert.Equal(t, StepChat, f.Step(), "no step pointer is persisted")
	require.NotNil(t, f.Contract())
	assert.Equal(t, "c1", f.Contract().ID)
}

func TestContractFlowProfessionalsCannotSubmit(t *testing.T) {
	store := newFlowStore()
	f := NewContractFlow(store, professionalCoordinator(t), noNav(t), map[string]string{"service_id": "s1"})
	require.NoError(t, f.Load())

	_, err := f.Submit()
	require.Error(t, err)
}

func TestContractFlowMissingParams(t *testing.T) {
	f := NewContractFlow(newFlowStore(), clientCoordinator(t), noNav(t), nil)
	assert.True(t, f.NotFound())
	require.Error(t, f.Load())
}

func TestContractFlowInvalidPaymentMethod(t *testing.T) {
	f := NewContractFlow(newFlowStore(), clientCoordinator(t), noNav(t), map[string]string{"service_id": "s1"})
	require.Error(t, f.SelectPaymentMethod("barter"))
	require.NoError(t, f.SelectPaymentMethod("credit_card"))
}

func TestContractFlowSendMessage(t *testing.T) {
	store := newFlowStore()
	f := NewContractFlow(store, clientCoordinator(t), noNav(t), map[string]string{"contract_id": "c1"})
	require.NoError(t, f.Load())

	require.NoError(t, f.SendMessage("Pode vir na sexta?"))

	contract := f.Contract()
	require.Len(t, contract.Messages, 2, "new message appended after the seed")
	assert.Equal(t, "Pode vir na sexta?", contract.Messages[1].Text)
	assert.NotNil(t, contract.Service, "joined rows survive the merge")
}

func TestContractFlowAdvanceValidatesTransition(t *testing.T) {
	store := newFlowStore()
	f := NewContractFlow(store, professionalCoordinator(t), noNav(t), map[string]string{"contract_id": "c1"})
	require.NoError(t, f.Load())
	callsBefore := store.callCount()

	require.Error(t, f.Advance(models.StatusCompleted), "requested cannot jump to completed")
	assert.Equal(t, callsBefore, store.callCount())

	require.NoError(t, f.Advance(models.StatusAccepted))
	assert.Equal(t, models.StatusAccepted, f.Contract().Status)
}
