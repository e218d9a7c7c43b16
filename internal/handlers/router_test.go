package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/auth"
	"ironpress-terminal/internal/billing"
	"ironpress-terminal/internal/models"
	"ironpress-terminal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlobs struct {
	data map[string][]byte
}

func (m *memBlobs) Load(key string) ([]byte, bool, error) {
	raw, ok := m.data[key]
	return raw, ok, nil
}

func (m *memBlobs) Save(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memBlobs) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeBackend serves just enough of the API for the pages under test.
func fakeBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": apiclient.LoginResult{
				User:         &models.User{ID: "u1", Name: "Asha", Email: body["email"], Role: models.RoleAdmin, StoreID: "s1"},
				Store:        &models.Store{ID: "s1", Name: "Press & Go", IsActive: true},
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
			},
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("GET /bills", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []models.Bill{
			{ID: "b1", BillNumber: "B-1", Customer: models.Customer{Name: "Ravi"}, Status: models.BillPending},
		}})
	})
	mux.HandleFunc("GET /bills/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": models.DashboardStats{TotalBills: 1, PendingBills: 1}})
	})
	mux.HandleFunc("GET /stores", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []models.StoreAccount{
			{ID: "s1", Name: "Press & Go", IsApproved: true, IsActive: true},
		}})
	})
	return mux
}

type terminal struct {
	router   *gin.Engine
	sessions *session.Store
	blobs    *memBlobs
}

func newTerminal(t *testing.T) *terminal {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(fakeBackend())
	t.Cleanup(srv.Close)

	blobs := &memBlobs{data: map[string][]byte{}}
	sessions := session.NewStore(blobs, quietLog())
	api := apiclient.New(srv.URL, sessions, quietLog())
	authSvc := auth.NewService(api, sessions, quietLog())
	bills := billing.NewStore(api, sessions, quietLog())

	r := gin.New()
	New(sessions, authSvc, bills, api, quietLog()).Routes(r)
	return &terminal{router: r, sessions: sessions, blobs: blobs}
}

func (tt *terminal) loginAs(t *testing.T, role models.Role, store *models.Store) {
	t.Helper()
	require.NoError(t, tt.sessions.Set(&models.Session{
		User:         &models.User{ID: "u1", Name: "Asha", Email: "asha@shop.com", Role: role, StoreID: "s1"},
		Store:        store,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}))
}

func (tt *terminal) request(method, path, body string) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tt.router.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedPagesRedirectToLogin(t *testing.T) {
	tt := newTerminal(t)

	for _, path := range []string{"/dashboard", "/bills", "/new-bill", "/settings", "/stores-management", "/employees"} {
		w := tt.request(http.MethodGet, path, "")
		assert.Equalf(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equalf(t, "/login", w.Header().Get("Location"), "path %s", path)
	}
}

func TestRoleMismatchRedirectsToDashboard(t *testing.T) {
	tt := newTerminal(t)
	tt.loginAs(t, models.RoleEmployee, &models.Store{ID: "s1", IsActive: true})

	for _, path := range []string{"/employees", "/stores-management", "/subscriptions"} {
		w := tt.request(http.MethodGet, path, "")
		assert.Equalf(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equalf(t, "/dashboard", w.Header().Get("Location"), "path %s", path)
	}

	// The pages the role does hold stay reachable.
	w := tt.request(http.MethodGet, "/bills", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeactivatedStoreLocksOutStaff(t *testing.T) {
	tt := newTerminal(t)
	reason := "payment overdue"
	tt.loginAs(t, models.RoleAdmin, &models.Store{ID: "s1", IsActive: false, DeactivationReason: &reason})

	for _, path := range []string{"/dashboard", "/bills", "/settings", "/employees"} {
		w := tt.request(http.MethodGet, path, "")
		assert.Equalf(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equalf(t, "/store-deactivated", w.Header().Get("Location"), "path %s", path)
	}

	// The lockout page itself shows the reason.
	w := tt.request(http.MethodGet, "/store-deactivated", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "payment overdue")
}

func TestSuperAdminReachesConsolePages(t *testing.T) {
	tt := newTerminal(t)
	tt.loginAs(t, models.RoleSuperAdmin, nil)

	w := tt.request(http.MethodGet, "/stores-management", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Press & Go")

	// Store-scoped pages bounce the super admin back.
	w = tt.request(http.MethodGet, "/bills", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestLoginHappyPath(t *testing.T) {
	tt := newTerminal(t)

	w := tt.request(http.MethodPost, "/login", `{"email":"asha@shop.com","password":"hunter22"}`)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	assert.True(t, tt.sessions.IsAuthenticated())
	assert.Contains(t, tt.blobs.data, session.StorageKey)

	// The gate now lets the operator through.
	w = tt.request(http.MethodGet, "/bills", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	tt := newTerminal(t)

	w := tt.request(http.MethodPost, "/login", `{"email":"asha@shop.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
	assert.False(t, tt.sessions.IsAuthenticated())
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	tt := newTerminal(t)

	w := tt.request(http.MethodPost, "/login", `{"email":"asha@shop.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsSessionAndRedirects(t *testing.T) {
	tt := newTerminal(t)
	tt.loginAs(t, models.RoleAdmin, &models.Store{ID: "s1", IsActive: true})

	w := tt.request(http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, tt.sessions.IsAuthenticated())
	assert.NotContains(t, tt.blobs.data, session.StorageKey)
}

func TestIndexRedirects(t *testing.T) {
	tt := newTerminal(t)

	w := tt.request(http.MethodGet, "/", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	tt.loginAs(t, models.RoleEmployee, &models.Store{ID: "s1", IsActive: true})
	w = tt.request(http.MethodGet, "/", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestUnknownRouteIs404(t *testing.T) {
	tt := newTerminal(t)

	w := tt.request(http.MethodGet, "/no-such-page", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}
