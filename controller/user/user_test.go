package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reddrop/middleware"
	"reddrop/model"
	"reddrop/services"

	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	emails map[string]string
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	email, ok := f.emails[idToken]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{Claims: map[string]interface{}{"email": email}}, nil
}

type donorQuery struct {
	bloodGroup string
	district   string
	upazila    string
}

type fakeDirectory struct {
	users       map[string]model.User
	donorQuery  *donorQuery
	listFilter  string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]model.User{}}
}

func (f *fakeDirectory) List(_ context.Context, email string) ([]model.User, error) {
	f.listFilter = email
	all := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		if email != "" && user.Email != email {
			continue
		}
		all = append(all, user)
	}
	return all, nil
}

func (f *fakeDirectory) ListDonors(_ context.Context, bloodGroup, district, upazila string) ([]model.User, error) {
	f.donorQuery = &donorQuery{bloodGroup: bloodGroup, district: district, upazila: upazila}
	donors := make([]model.User, 0)
	for _, user := range f.users {
		if user.Role != model.RoleDonor {
			continue
		}
		if bloodGroup != "" && user.BloodGroup != bloodGroup {
			continue
		}
		if district != "" && user.District != district {
			continue
		}
		if upazila != "" && user.Upazila != upazila {
			continue
		}
		donors = append(donors, user)
	}
	return donors, nil
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &user, nil
}

func (f *fakeDirectory) RoleByEmail(ctx context.Context, email string) (string, error) {
	user, err := f.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (f *fakeDirectory) Create(_ context.Context, user model.User) error {
	if _, ok := f.users[user.Email]; ok {
		return services.ErrDuplicate
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeDirectory) UpdateProfile(_ context.Context, email string, fields map[string]interface{}) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, services.ErrNotFound
	}
	for path, value := range fields {
		text, _ := value.(string)
		switch path {
		case "displayName":
			user.DisplayName = text
		case "district":
			user.District = text
		case "upazila":
			user.Upazila = text
		case "bloodGroup":
			user.BloodGroup = text
		case "photoURL":
			user.PhotoURL = text
		}
	}
	f.users[email] = user
	return &user, nil
}

func (f *fakeDirectory) SetStatus(_ context.Context, id, status string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	user.Status = status
	f.users[id] = user
	return &user, nil
}

func (f *fakeDirectory) SetRole(_ context.Context, id, role string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	user.Role = role
	f.users[id] = user
	return &user, nil
}

func newTestRouter(verifier middleware.TokenVerifier, users Directory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	UserController(router, verifier, users)
	return router
}

func perform(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedUser(directory *fakeDirectory, email, role, status string) {
	directory.users[email] = model.User{
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func TestCreateUserForcesRoleAndStatus(t *testing.T) {
	directory := newFakeDirectory()
	router := newTestRouter(&fakeVerifier{}, directory)

	// role and status in the payload must be ignored.
	w := perform(router, http.MethodPost, "/users", "", gin.H{
		"email":       "alice@example.com",
		"displayName": "Alice",
		"bloodGroup":  "O+",
		"role":        "admin",
		"status":      "blocked",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	created := directory.users["alice@example.com"]
	assert.Equal(t, model.RoleDonor, created.Role)
	assert.Equal(t, model.UserActive, created.Status)
	assert.Equal(t, "O+", created.BloodGroup)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "alice@example.com", model.RoleDonor, model.UserActive)
	router := newTestRouter(&fakeVerifier{}, directory)

	w := perform(router, http.MethodPost, "/users", "", gin.H{
		"email": "alice@example.com", "displayName": "Alice",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestListDonorsPassesFilters(t *testing.T) {
	directory := newFakeDirectory()
	directory.users["a@example.com"] = model.User{Email: "a@example.com", Role: model.RoleDonor, BloodGroup: "O+", District: "Dhaka"}
	directory.users["b@example.com"] = model.User{Email: "b@example.com", Role: model.RoleDonor, BloodGroup: "A-", District: "Dhaka"}
	directory.users["c@example.com"] = model.User{Email: "c@example.com", Role: model.RoleAdmin, BloodGroup: "O+"}
	router := newTestRouter(&fakeVerifier{}, directory)

	w := perform(router, http.MethodGet, "/donors?bloodGroup=O%2B&district=Dhaka", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, directory.donorQuery)
	assert.Equal(t, "O+", directory.donorQuery.bloodGroup)
	assert.Equal(t, "Dhaka", directory.donorQuery.district)

	var donors []model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &donors))
	require.Len(t, donors, 1)
	assert.Equal(t, "a@example.com", donors[0].Email)
}

func TestGetUserRoleDefaultsToDonor(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "admin@example.com", model.RoleAdmin, model.UserActive)
	router := newTestRouter(&fakeVerifier{}, directory)

	w := perform(router, http.MethodGet, "/users/nobody@example.com/role", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"donor"}`, w.Body.String())

	w = perform(router, http.MethodGet, "/users/admin@example.com/role", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin"}`, w.Body.String())
}

func TestGetUserStatus(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "blocked@example.com", model.RoleDonor, model.UserBlocked)
	directory.users["legacy@example.com"] = model.User{Email: "legacy@example.com", Role: model.RoleDonor}
	router := newTestRouter(&fakeVerifier{}, directory)

	w := perform(router, http.MethodGet, "/users/nobody@example.com/status", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodGet, "/users/blocked@example.com/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"blocked"}`, w.Body.String())

	// Records without a stored status read as active.
	w = perform(router, http.MethodGet, "/users/legacy@example.com/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"active"}`, w.Body.String())
}

func TestListUsersIsAdminOnly(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "admin@example.com", model.RoleAdmin, model.UserActive)
	seedUser(directory, "donor@example.com", model.RoleDonor, model.UserActive)
	verifier := &fakeVerifier{emails: map[string]string{
		"admin-token": "admin@example.com",
		"donor-token": "donor@example.com",
	}}
	router := newTestRouter(verifier, directory)

	w := perform(router, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, http.MethodGet, "/users", "donor-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(router, http.MethodGet, "/users?email=donor@example.com", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "donor@example.com", directory.listFilter)
}

func TestUpdateProfileAppliesWhitelistOnly(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "alice@example.com", model.RoleDonor, model.UserActive)
	verifier := &fakeVerifier{emails: map[string]string{"token": "alice@example.com"}}
	router := newTestRouter(verifier, directory)

	// role is not a profile field and must not leak into the update.
	w := perform(router, http.MethodPatch, "/users/profile", "token", gin.H{
		"displayName": "Alice Rahman",
		"district":    "Dhaka",
		"role":        "admin",
	})

	require.Equal(t, http.StatusOK, w.Code)
	updated := directory.users["alice@example.com"]
	assert.Equal(t, "Alice Rahman", updated.DisplayName)
	assert.Equal(t, "Dhaka", updated.District)
	assert.Equal(t, model.RoleDonor, updated.Role)
}

func TestUpdateProfileRejectsEmptyUpdate(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "alice@example.com", model.RoleDonor, model.UserActive)
	verifier := &fakeVerifier{emails: map[string]string{"token": "alice@example.com"}}
	router := newTestRouter(verifier, directory)

	w := perform(router, http.MethodPatch, "/users/profile", "token", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No data to update")
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	directory := newFakeDirectory()
	verifier := &fakeVerifier{emails: map[string]string{"token": "ghost@example.com"}}
	router := newTestRouter(verifier, directory)

	w := perform(router, http.MethodPatch, "/users/profile", "token", gin.H{"district": "Dhaka"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdatesRoleAndStatus(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "admin@example.com", model.RoleAdmin, model.UserActive)
	seedUser(directory, "bob@example.com", model.RoleDonor, model.UserActive)
	verifier := &fakeVerifier{emails: map[string]string{"admin-token": "admin@example.com"}}
	router := newTestRouter(verifier, directory)

	w := perform(router, http.MethodPatch, "/users/bob@example.com/role", "admin-token", gin.H{"role": "volunteer"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoleVolunteer, directory.users["bob@example.com"].Role)

	w = perform(router, http.MethodPatch, "/users/bob@example.com/status", "admin-token", gin.H{"status": "blocked"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.UserBlocked, directory.users["bob@example.com"].Status)
}

func TestAdminUpdateRejectsInvalidEnumValues(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(directory, "admin@example.com", model.RoleAdmin, model.UserActive)
	seedUser(directory, "bob@example.com", model.RoleDonor, model.UserActive)
	verifier := &fakeVerifier{emails: map[string]string{"admin-token": "admin@example.com"}}
	router := newTestRouter(verifier, directory)

	w := perform(router, http.MethodPatch, "/users/bob@example.com/role", "admin-token", gin.H{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPatch, "/users/bob@example.com/status", "admin-token", gin.H{"status": "suspended"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
