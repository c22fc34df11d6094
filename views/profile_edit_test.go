package views

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	uploads []string
	err     error
}

func (f *fakeImages) UploadImage(ctx context.Context, localPath, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, folder+"/"+localPath)
	return fmt.Sprintf("https://res.cloudinary.com/%s/%s", folder, localPath), nil
}

func (f *fakeImages) DeleteImage(ctx context.Context, publicID string) error { return nil }

// noProfileCoordinator signs in a user whose profile row does not exist
// yet, the state right after signup.
func noProfileCoordinator(t *testing.T) *session.Coordinator {
	t.Helper()
	auth := &stubAuth{active: &gateway.Session{
		AccessToken: "token",
		UserID:      "auth-1",
		Email:       "ana@example.com",
	}}
	store := &fakeStore{responder: func(op gateway.Op, q *gateway.Query, body any) (any, error) {
		return nil, gateway.ErrNotFound
	}}
	c := session.NewCoordinator(auth, store)
	require.NoError(t, c.SignIn(context.Background(), "ana@example.com", "secret"))
	return c
}

func profileEditStore() *fakeStore {
	return &fakeStore{responder: func(op gateway.Op, q *gateway.Query, body any) (any, error) {
		switch op {
		case gateway.OpInsert:
			row, _ := body.(models.Professional)
			row.ID = "new-1"
			return row, nil
		case gateway.OpUpdate:
			patch, _ := body.(map[string]any)
			row := models.Professional{UserProfile: models.UserProfile{
				ID:   "u1",
				Role: models.RoleClient,
			}}
			if name, ok := patch["name"].(string); ok {
				row.Name = name
			}
			return row, nil
		}
		return nil, errors.New("unexpected read")
	}}
}

func TestFirstSaveInsertsWithAuthSubject(t *testing.T) {
	store := profileEditStore()
	sess := noProfileCoordinator(t)
	var navs []navRecord
	p := NewProfileEdit(store, sess, nil, recordNav(&navs))
	require.NoError(t, p.Load())
	assert.False(t, p.RoleLocked())

	p.Form.Name = "Ana"
	p.Form.Role = models.RoleClient
	require.NoError(t, p.Save())

	call := store.lastCall()
	assert.Equal(t, gateway.OpInsert, call.op)
	row, ok := call.body.(models.Professional)
	require.True(t, ok)
	assert.Equal(t, "auth-1", row.AuthID)
	assert.Equal(t, "ana@example.com", row.Email)
	assert.Equal(t, models.RoleClient, row.Role)

	// The saved row flows back through the coordinator.
	user, hasProfile := sess.Current()
	require.True(t, hasProfile)
	assert.Equal(t, "new-1", user.Profile().ID)
	assert.True(t, p.RoleLocked())

	require.Len(t, navs, 1)
	assert.Equal(t, ScreenClientHome, navs[0].screen)
}

func TestProfessionalInsertDefaultsAvailability(t *testing.T) {
	store := profileEditStore()
	var navs []navRecord
	p := NewProfileEdit(store, noProfileCoordinator(t), nil, recordNav(&navs))
	require.NoError(t, p.Load())

	p.Form.Name = "Carlos"
	p.Form.Role = models.RoleProfessional
	p.Form.Specializations = []string{"eletricista"}
	require.NoError(t, p.Save())

	row := store.lastCall().body.(models.Professional)
	assert.Equal(t, models.AvailabilityAvailable, row.Availability)
	require.Len(t, navs, 1)
	assert.Equal(t, ScreenDashboard, navs[0].screen)
}

func TestInsertRequiresRoleChoice(t *testing.T) {
	store := profileEditStore()
	p := NewProfileEdit(store, noProfileCoordinator(t), nil, noNav(t))
	require.NoError(t, p.Load())
	calls := store.callCount()

	p.Form.Name = "Ana"
	require.Error(t, p.Save(), "no role chosen")
	assert.Equal(t, calls, store.callCount())

	p.Form.Name = ""
	p.Form.Role = models.RoleClient
	require.Error(t, p.Save(), "name required")
	assert.Equal(t, calls, store.callCount())
}

func TestUpdatePatchNeverCarriesRole(t *testing.T) {
	store := profileEditStore()
	var navs []navRecord
	p := NewProfileEdit(store, clientCoordinator(t), nil, recordNav(&navs))
	require.NoError(t, p.Load())
	assert.True(t, p.RoleLocked())
	assert.Equal(t, "Ana", p.Form.Name)

	p.Form.Name = "Ana Souza"
	p.Form.Bio = "Organizada e pontual"
	require.NoError(t, p.Save())

	call := store.lastCall()
	assert.Equal(t, gateway.OpUpdate, call.op)
	patch, ok := call.body.(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, patch, "role")
	assert.Equal(t, "Ana Souza", patch["name"])
	assert.NotContains(t, patch, "specializations", "client patches omit professional fields")
}

func TestUploadAvatarFillsForm(t *testing.T) {
	images := &fakeImages{}
	p := NewProfileEdit(profileEditStore(), clientCoordinator(t), images, noNav(t))
	require.NoError(t, p.Load())

	require.NoError(t, p.UploadAvatar("/tmp/selfie.jpg"))
	assert.Equal(t, "https://res.cloudinary.com/avatars//tmp/selfie.jpg", p.Form.AvatarURL)

	images.err = errors.New("upload falhou")
	require.Error(t, p.UploadAvatar("/tmp/other.jpg"))
}

func TestUploadWithoutStorageConfigured(t *testing.T) {
	p := NewProfileEdit(profileEditStore(), clientCoordinator(t), nil, noNav(t))
	require.NoError(t, p.Load())
	require.Error(t, p.UploadAvatar("/tmp/selfie.jpg"))
	require.Error(t, p.AddPortfolioImage("/tmp/work.jpg"))
}
