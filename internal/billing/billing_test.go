package billing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/models"
	"ironpress-terminal/internal/session"

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

var testCategories = []models.ItemCategory{
	{ID: "c1", Name: "Shirt", Price: 15, Icon: "👔"},
	{ID: "c2", Name: "Pants", Price: 20, Icon: "👖"},
	{ID: "c3", Name: "Saree", Price: 50, Icon: "👗"},
}

func TestComposeItemsAndTotal(t *testing.T) {
	items := ComposeItems(testCategories, map[string]int{"c1": 2, "c2": 1, "c3": 0})

	require.Len(t, items, 2)
	assert.Equal(t, "Pants", items[0].CategoryName)
	assert.Equal(t, 20.0, items[0].Subtotal)
	assert.Equal(t, "Shirt", items[1].CategoryName)
	assert.Equal(t, 30.0, items[1].Subtotal)

	// 15*2 + 20*1
	assert.Equal(t, 50.0, Total(items))
}

func TestComposeItemsIgnoresUnknownCategories(t *testing.T) {
	items := ComposeItems(testCategories, map[string]int{"nope": 3})
	assert.Empty(t, items)
	assert.Zero(t, Total(nil))
}

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		CustomerName:  "Ravi",
		CustomerPhone: "9876543210",
		Quantities:    map[string]int{"c1": 2},
	}

	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr string
	}{
		{name: "valid draft", mutate: func(d *Draft) {}},
		{
			name:    "missing customer name",
			mutate:  func(d *Draft) { d.CustomerName = "  " },
			wantErr: "customer name and phone",
		},
		{
			name:    "missing customer phone",
			mutate:  func(d *Draft) { d.CustomerPhone = "" },
			wantErr: "customer name and phone",
		},
		{
			name:    "no quantities at all",
			mutate:  func(d *Draft) { d.Quantities = nil },
			wantErr: "at least one item",
		},
		{
			name:    "only zero quantities",
			mutate:  func(d *Draft) { d.Quantities = map[string]int{"c1": 0, "c2": 0} },
			wantErr: "at least one item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid
			tt.mutate(&draft)

			err := draft.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// billBackend is a fake /bills API with per-endpoint counters.
type billBackend struct {
	mu         sync.Mutex
	listCalls  int
	statsCalls int
	getCalls   int
	creates    []apiclient.BillCreate
	updates    []apiclient.BillUpdate
	bills      []models.Bill
}

func (b *billBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bills", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls++
		bills := b.bills
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": bills})
	})
	mux.HandleFunc("GET /bills/stats", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.statsCalls++
		total := len(b.bills)
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    models.DashboardStats{TotalBills: total, PendingBills: total},
		})
	})
	mux.HandleFunc("GET /bills/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.getCalls++
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    models.Bill{ID: r.PathValue("id"), BillNumber: "B-77", Status: models.BillPending},
		})
	})
	mux.HandleFunc("POST /bills", func(w http.ResponseWriter, r *http.Request) {
		var data apiclient.BillCreate
		json.NewDecoder(r.Body).Decode(&data)

		b.mu.Lock()
		b.creates = append(b.creates, data)
		created := models.Bill{
			ID:          "b-new",
			BillNumber:  "B-100",
			Customer:    models.Customer{Name: data.CustomerName, Phone: data.CustomerPhone},
			Status:      models.BillPending,
			TotalAmount: 50,
		}
		b.bills = append(b.bills, created)
		b.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": created})
	})
	mux.HandleFunc("PUT /bills/{id}", func(w http.ResponseWriter, r *http.Request) {
		var data apiclient.BillUpdate
		json.NewDecoder(r.Body).Decode(&data)
		b.mu.Lock()
		b.updates = append(b.updates, data)
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	return mux
}

func newTestStore(t *testing.T, b *billBackend, role models.Role) *Store {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	sessions := session.NewStore(&memBlobs{data: map[string][]byte{}}, quietLog())
	require.NoError(t, sessions.Set(&models.Session{
		User:         &models.User{ID: "u1", Role: role, StoreID: "s1"},
		Store:        &models.Store{ID: "s1", IsActive: true},
		AccessToken:  "token",
		RefreshToken: "refresh",
	}))

	api := apiclient.New(srv.URL, sessions, quietLog())
	return NewStore(api, sessions, quietLog())
}

func TestCreateRefetchesListAndStats(t *testing.T) {
	b := &billBackend{}
	store := newTestStore(t, b, models.RoleEmployee)

	bill, err := store.Create(context.Background(), Draft{
		CustomerName:  "Ravi",
		CustomerPhone: "9876543210",
		Quantities:    map[string]int{"c1": 2, "c2": 1, "c3": 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, bill.TotalAmount)

	// Zero-quantity lines never leave the terminal.
	require.Len(t, b.creates, 1)
	assert.Equal(t, []apiclient.BillCreateItem{
		{CategoryID: "c1", Quantity: 2},
		{CategoryID: "c2", Quantity: 1},
	}, b.creates[0].Items)

	// The mutation triggers a full refetch of both list and stats.
	assert.Equal(t, 1, b.listCalls)
	assert.Equal(t, 1, b.statsCalls)

	bills, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "B-100", bills[0].BillNumber)
	// List was served from cache, no extra round trip.
	assert.Equal(t, 1, b.listCalls)

	require.NotNil(t, store.Stats())
	assert.Equal(t, 1, store.Stats().TotalBills)
}

func TestCreateInvalidDraftNeverTouchesNetwork(t *testing.T) {
	b := &billBackend{}
	store := newTestStore(t, b, models.RoleEmployee)

	_, err := store.Create(context.Background(), Draft{CustomerName: "Ravi"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, b.creates)
	assert.Zero(t, b.listCalls)
}

func TestMarkCompletedSendsTransitionAndRefetches(t *testing.T) {
	b := &billBackend{}
	store := newTestStore(t, b, models.RoleAdmin)

	require.NoError(t, store.MarkCompleted(context.Background(), "b-1"))

	require.Len(t, b.updates, 1)
	assert.Equal(t, models.BillCompleted, b.updates[0].Status)
	assert.Equal(t, 1, b.listCalls)
	assert.Equal(t, 1, b.statsCalls)
}

func TestGetAlwaysFetchesFresh(t *testing.T) {
	b := &billBackend{}
	store := newTestStore(t, b, models.RoleAdmin)

	for i := 0; i < 3; i++ {
		bill, err := store.Get(context.Background(), "b-77")
		require.NoError(t, err)
		assert.Equal(t, "b-77", bill.ID)
	}
	assert.Equal(t, 3, b.getCalls)
}

func TestSuperAdminFetchSuppressed(t *testing.T) {
	b := &billBackend{}
	store := newTestStore(t, b, models.RoleSuperAdmin)

	require.NoError(t, store.Refresh(context.Background()))
	assert.Zero(t, b.listCalls)
	assert.Zero(t, b.statsCalls)
}

func TestSearchFiltersCachedList(t *testing.T) {
	b := &billBackend{bills: []models.Bill{
		{ID: "1", BillNumber: "B-1", Customer: models.Customer{Name: "Ravi Kumar", Phone: "9876543210"}, Status: models.BillPending},
		{ID: "2", BillNumber: "B-2", Customer: models.Customer{Name: "Meena", Phone: "9000000000"}, Status: models.BillCompleted},
		{ID: "3", BillNumber: "B-3", Customer: models.Customer{Name: "Ravi Shah", Phone: "9111111111"}, Status: models.BillCompleted},
	}}
	store := newTestStore(t, b, models.RoleAdmin)

	byName, err := store.Search(context.Background(), "ravi", "")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byPhone, err := store.Search(context.Background(), "9000000000", "all")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Meena", byPhone[0].Customer.Name)

	completed, err := store.Search(context.Background(), "", "completed")
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	both, err := store.Search(context.Background(), "ravi", "pending")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "B-1", both[0].BillNumber)
}
