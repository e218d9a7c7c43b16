// Package billing is the terminal's bill aggregate store: an in-memory
// cache of the current session's bills and dashboard stats, refreshed from
// the server after every mutation. Totals shown to the operator therefore
// always match server truth, at the cost of one extra round trip per
// mutation.
package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/models"
	"ironpress-terminal/internal/session"

	"github.com/sirupsen/logrus"
)

// ErrValidation marks failures caught before any network call. The wrapped
// message is safe to show the operator as-is.
var ErrValidation = errors.New("validation")

// Store caches bills and stats for the logged-in store.
type Store struct {
	api      *apiclient.Client
	sessions *session.Store
	log      *logrus.Logger

	mu     sync.Mutex
	bills  []models.Bill
	stats  *models.DashboardStats
	loaded bool
}

func NewStore(api *apiclient.Client, sessions *session.Store, log *logrus.Logger) *Store {
	return &Store{api: api, sessions: sessions, log: log}
}

// Refresh refetches the bill list and stats together. Suppressed entirely
// for super admins - they have no store-scoped bills.
func (s *Store) Refresh(ctx context.Context) error {
	user := s.sessions.CurrentUser()
	if user == nil || user.Role == models.RoleSuperAdmin {
		return nil
	}

	bills, err := s.api.Bills.List(ctx)
	if err != nil {
		return err
	}

	// Stats ride along with the list but a stats failure does not discard
	// a good list; the dashboard just keeps the previous numbers.
	stats, err := s.api.Bills.Stats(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to fetch bill stats")
	}

	s.mu.Lock()
	s.bills = bills
	if stats != nil {
		s.stats = stats
	}
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// List returns the cached bills, fetching them first if this session has
// not loaded them yet.
func (s *Store) List(ctx context.Context) ([]models.Bill, error) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Bill, len(s.bills))
	copy(out, s.bills)
	return out, nil
}

// Search filters the cached list by customer name, phone, or bill number,
// and by status ("" or "all" matches everything).
func (s *Store) Search(ctx context.Context, search, status string) ([]models.Bill, error) {
	bills, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	status = strings.ToUpper(strings.TrimSpace(status))

	out := bills[:0]
	for _, bill := range bills {
		if search != "" {
			matches := strings.Contains(strings.ToLower(bill.Customer.Name), search) ||
				strings.Contains(bill.Customer.Phone, search) ||
				strings.Contains(strings.ToLower(bill.BillNumber), search)
			if !matches {
				continue
			}
		}
		if status != "" && status != "ALL" && bill.Status != status {
			continue
		}
		out = append(out, bill)
	}
	return out, nil
}

// Get always issues a fresh fetch so the detail view reflects the latest
// server state even when the cached list is stale.
func (s *Store) Get(ctx context.Context, id string) (*models.Bill, error) {
	return s.api.Bills.Get(ctx, id)
}

// Stats returns the last fetched dashboard stats, or nil before the first
// load.
func (s *Store) Stats() *models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Invalidate drops the cache. Called on logout so the next operator does
// not see the previous store's bills.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.bills = nil
	s.stats = nil
	s.loaded = false
	s.mu.Unlock()
}

// Draft is the purely local state of a bill being composed: quantities per
// category plus customer details. Nothing leaves the terminal until Create.
type Draft struct {
	CustomerName    string         `json:"customerName"`
	CustomerPhone   string         `json:"customerPhone"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerAddress string         `json:"customerAddress"`
	Notes           string         `json:"notes"`
	Quantities      map[string]int `json:"quantities"`
}

// Validate enforces the submission gate: customer name, customer phone,
// and at least one item with a positive quantity. Runs before any network
// call.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.CustomerName) == "" || strings.TrimSpace(d.CustomerPhone) == "" {
		return fmt.Errorf("%w: please enter customer name and phone number", ErrValidation)
	}
	for _, qty := range d.Quantities {
		if qty > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: please select at least one item", ErrValidation)
}

// ComposeItems turns the draft's quantities into bill lines against the
// category snapshot, computing subtotal = price * quantity per line.
// Categories with no positive quantity are skipped.
func ComposeItems(categories []models.ItemCategory, quantities map[string]int) []models.BillItem {
	items := make([]models.BillItem, 0, len(quantities))
	for _, cat := range categories {
		qty := quantities[cat.ID]
		if qty <= 0 {
			continue
		}
		items = append(items, models.BillItem{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Quantity:     qty,
			Price:        cat.Price,
			Subtotal:     cat.Price * float64(qty),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CategoryName < items[j].CategoryName })
	return items
}

// Total sums the line subtotals.
func Total(items []models.BillItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}

// Create validates the draft, submits it, and refetches list + stats. The
// server recomputes prices and totals authoritatively; the client-side
// numbers are only for the confirmation screen.
func (s *Store) Create(ctx context.Context, draft Draft) (*models.Bill, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	data := apiclient.BillCreate{
		CustomerName:    strings.TrimSpace(draft.CustomerName),
		CustomerPhone:   strings.TrimSpace(draft.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(draft.CustomerEmail),
		CustomerAddress: strings.TrimSpace(draft.CustomerAddress),
		Notes:           strings.TrimSpace(draft.Notes),
	}
	for categoryID, qty := range draft.Quantities {
		if qty > 0 {
			data.Items = append(data.Items, apiclient.BillCreateItem{CategoryID: categoryID, Quantity: qty})
		}
	}
	sort.Slice(data.Items, func(i, j int) bool { return data.Items[i].CategoryID < data.Items[j].CategoryID })

	bill, err := s.api.Bills.Create(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("bill created but refresh failed")
	}
	return bill, nil
}

// MarkCompleted transitions PENDING -> COMPLETED and refetches. This is
// the only status transition the terminal exposes; cancellation is
// server-side only.
func (s *Store) MarkCompleted(ctx context.Context, id string) error {
	if err := s.api.Bills.Update(ctx, id, apiclient.BillUpdate{Status: models.BillCompleted}); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("bill completed but refresh failed")
	}
	return nil
}
