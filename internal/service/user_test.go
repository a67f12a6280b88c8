package service

import (
	"context"
	"testing"

	"gameswap/internal/apperr"
	"gameswap/internal/event"
	"gameswap/internal/model"
	"gameswap/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*storetest.Memory, *fakePublisher, *UserService) {
	t.Helper()
	mem := storetest.NewMemory()
	pub := &fakePublisher{}
	return mem, pub, NewUserService(mem, pub, nil, testLogger(), nil)
}

func TestRegister(t *testing.T) {
	_, pub, svc := newUserFixture(t)

	user, err := svc.Register(context.Background(), RegisterParams{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "secret",
		Address:  "1 Main St",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Name)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
	assert.Empty(t, pub.published, "registration publishes nothing")
}

func TestRegisterValidation(t *testing.T) {
	_, _, svc := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterParams{Name: "alice"})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRegisterDuplicate(t *testing.T) {
	mem, _, svc := newUserFixture(t)
	existing := &model.User{ID: uuid.New(), Name: "alice", Email: "alice@example.com"}
	mem.AddUser(existing)

	tests := []struct {
		name   string
		params RegisterParams
	}{
		{"email taken", RegisterParams{Name: "other", Email: "alice@example.com", Password: "pw", Address: "a"}},
		{"name taken", RegisterParams{Name: "alice", Email: "other@example.com", Password: "pw", Address: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.params)
			var cf *apperr.ConflictError
			require.ErrorAs(t, err, &cf)
			assert.Equal(t, existing.ID.String(), cf.ExistingID)
		})
	}
}

func TestGetByNameAndID(t *testing.T) {
	mem, _, svc := newUserFixture(t)
	user := &model.User{ID: uuid.New(), Name: "alice", Email: "alice@example.com"}
	mem.AddUser(user)

	byName, err := svc.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := svc.Get(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)

	_, err = svc.Get(context.Background(), "nobody")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateProfile(t *testing.T) {
	mem, pub, svc := newUserFixture(t)
	user := &model.User{ID: uuid.New(), Name: "alice", Email: "alice@example.com", PasswordHash: hashPassword(t, "secret")}
	mem.AddUser(user)

	newAddr := "2 Oak Ave"
	updated, err := svc.Update(context.Background(), "alice", "secret", UpdateParams{Address: &newAddr})
	require.NoError(t, err)

	assert.Equal(t, "2 Oak Ave", updated.Address)
	assert.Empty(t, pub.published, "profile edits publish nothing")
}

func TestUpdatePasswordPublishesEvent(t *testing.T) {
	mem, pub, svc := newUserFixture(t)
	user := &model.User{ID: uuid.New(), Name: "alice", Email: "alice@example.com", PasswordHash: hashPassword(t, "secret")}
	mem.AddUser(user)

	newPw := "stronger"
	updated, err := svc.Update(context.Background(), "alice", "secret", UpdateParams{NewPassword: &newPw})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("stronger")))

	require.Len(t, pub.published, 1)
	assert.Equal(t, event.TopicUserChanges, pub.published[0].topic)
	payload, ok := pub.published[0].payload.(event.UserChange)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), payload.ID)
	assert.Equal(t, "alice@example.com", payload.Email)
}

func TestUpdateWrongPassword(t *testing.T) {
	mem, pub, svc := newUserFixture(t)
	user := &model.User{ID: uuid.New(), Name: "alice", PasswordHash: hashPassword(t, "secret")}
	mem.AddUser(user)

	name := "eve"
	_, err := svc.Update(context.Background(), "alice", "wrong", UpdateParams{Name: &name})
	var an *apperr.AuthenticationError
	assert.ErrorAs(t, err, &an)
	assert.Empty(t, pub.published)
}

func TestDelete(t *testing.T) {
	mem, _, svc := newUserFixture(t)
	user := &model.User{ID: uuid.New(), Name: "alice", PasswordHash: hashPassword(t, "secret")}
	mem.AddUser(user)

	require.NoError(t, svc.Delete(context.Background(), "alice", "secret"))

	_, err := svc.Get(context.Background(), "alice")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteWrongPassword(t *testing.T) {
	mem, _, svc := newUserFixture(t)
	user := &model.User{ID: uuid.New(), Name: "alice", PasswordHash: hashPassword(t, "secret")}
	mem.AddUser(user)

	err := svc.Delete(context.Background(), "alice", "wrong")
	var an *apperr.AuthenticationError
	assert.ErrorAs(t, err, &an)

	_, err = svc.Get(context.Background(), "alice")
	assert.NoError(t, err, "account survives a failed delete")
}
