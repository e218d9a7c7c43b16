package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"ironpress-terminal/internal/models"
)

// Typed wrappers around the backend endpoints, grouped per concern the way
// the backend groups them.

// AuthAPI covers /auth/*.
type AuthAPI struct{ c *Client }

// LoginResult is the payload of a successful POST /auth/login.
type LoginResult struct {
	User         *models.User  `json:"user"`
	Store        *models.Store `json:"store"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

func (a AuthAPI) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := a.c.Post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a AuthAPI) Logout(ctx context.Context) error {
	return a.c.Post(ctx, "/auth/logout", nil, nil)
}

func (a AuthAPI) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.c.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a AuthAPI) UpdateProfile(ctx context.Context, name string) error {
	return a.c.Put(ctx, "/auth/profile", map[string]string{"name": name}, nil)
}

func (a AuthAPI) ChangePassword(ctx context.Context, newPassword string) error {
	return a.c.Put(ctx, "/auth/change-password", map[string]string{"newPassword": newPassword}, nil)
}

// BillsAPI covers /bills.
type BillsAPI struct{ c *Client }

// BillCreate is the create-bill request: customer fields plus category/
// quantity pairs. Prices and totals are recomputed server-side.
type BillCreate struct {
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   string           `json:"customerEmail,omitempty"`
	CustomerAddress string           `json:"customerAddress,omitempty"`
	Items           []BillCreateItem `json:"items"`
	Notes           string           `json:"notes,omitempty"`
}

type BillCreateItem struct {
	CategoryID string `json:"categoryId"`
	Quantity   int    `json:"quantity"`
}

// BillUpdate carries a status transition and/or new notes.
type BillUpdate struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

func (b BillsAPI) List(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := b.c.Get(ctx, "/bills", nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (b BillsAPI) Get(ctx context.Context, id string) (*models.Bill, error) {
	var bill models.Bill
	if err := b.c.Get(ctx, "/bills/"+id, nil, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (b BillsAPI) Create(ctx context.Context, data BillCreate) (*models.Bill, error) {
	var bill models.Bill
	if err := b.c.Post(ctx, "/bills", data, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (b BillsAPI) Update(ctx context.Context, id string, data BillUpdate) error {
	return b.c.Put(ctx, "/bills/"+id, data, nil)
}

func (b BillsAPI) Delete(ctx context.Context, id string) error {
	return b.c.Delete(ctx, "/bills/"+id)
}

func (b BillsAPI) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := b.c.Get(ctx, "/bills/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CategoriesAPI covers /categories.
type CategoriesAPI struct{ c *Client }

// CategoryData is the create/update payload for a service category.
type CategoryData struct {
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Icon     string  `json:"icon,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (a CategoriesAPI) List(ctx context.Context, includeInactive bool) ([]models.ItemCategory, error) {
	query := url.Values{}
	if includeInactive {
		query.Set("includeInactive", strconv.FormatBool(includeInactive))
	}
	var categories []models.ItemCategory
	if err := a.c.Get(ctx, "/categories", query, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (a CategoriesAPI) Create(ctx context.Context, data CategoryData) (*models.ItemCategory, error) {
	var category models.ItemCategory
	if err := a.c.Post(ctx, "/categories", data, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (a CategoriesAPI) Update(ctx context.Context, id string, data CategoryData) error {
	return a.c.Put(ctx, "/categories/"+id, data, nil)
}

func (a CategoriesAPI) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/categories/"+id)
}

// StoresAPI covers store self-settings, the public registration flow, and
// the super-admin store operations.
type StoresAPI struct{ c *Client }

// StoreRegistration is the public pending-approval signup: the store's
// details plus its first admin account.
type StoreRegistration struct {
	StoreName  string `json:"storeName"`
	StoreEmail string `json:"storeEmail"`
	StorePhone string `json:"storePhone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Pincode    string `json:"pincode"`
	GSTNumber  string `json:"gstNumber,omitempty"`
	AdminName  string `json:"adminName"`
	AdminEmail string `json:"adminEmail"`
	Password   string `json:"password"`
}

func (s StoresAPI) Register(ctx context.Context, data StoreRegistration) error {
	return s.c.Post(ctx, "/stores/register", data, nil)
}

func (s StoresAPI) MySettings(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := s.c.Get(ctx, "/stores/settings/my-store", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateMySettings sends a partial update; only the keys present are
// touched server-side, so toggling one switch cannot clobber another.
func (s StoresAPI) UpdateMySettings(ctx context.Context, updates map[string]any) error {
	return s.c.Put(ctx, "/stores/settings/my-store", updates, nil)
}

func (s StoresAPI) List(ctx context.Context) ([]models.StoreAccount, error) {
	var stores []models.StoreAccount
	if err := s.c.Get(ctx, "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (s StoresAPI) Approve(ctx context.Context, id string) error {
	return s.c.Post(ctx, "/stores/"+id+"/approve", nil, nil)
}

func (s StoresAPI) Reject(ctx context.Context, id string) error {
	return s.c.Post(ctx, "/stores/"+id+"/reject", nil, nil)
}

func (s StoresAPI) ToggleStatus(ctx context.Context, id, reason string) error {
	return s.c.Post(ctx, "/stores/"+id+"/toggle-status", map[string]string{"reason": reason}, nil)
}

// UsersAPI covers the admin's employee management under /users.
type UsersAPI struct{ c *Client }

// EmployeeCreate is the new-employee form.
type EmployeeCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (u UsersAPI) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := u.c.Get(ctx, "/users", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (u UsersAPI) Create(ctx context.Context, data EmployeeCreate) error {
	return u.c.Post(ctx, "/users", data, nil)
}

func (u UsersAPI) Delete(ctx context.Context, id string) error {
	return u.c.Delete(ctx, "/users/"+id)
}

func (u UsersAPI) ToggleStatus(ctx context.Context, id string) error {
	return u.c.Patch(ctx, "/users/"+id+"/toggle-status", nil, nil)
}

// SubscriptionsAPI covers the super-admin subscription console.
type SubscriptionsAPI struct{ c *Client }

// SubscriptionCreate assigns a plan to a store. EndDate only applies to
// FREE plans; paid plans derive it from the billing cycle.
type SubscriptionCreate struct {
	StoreID      string  `json:"storeId"`
	Plan         string  `json:"plan"`
	BillingCycle string  `json:"billingCycle"`
	Amount       float64 `json:"amount"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate,omitempty"`
}

func (s SubscriptionsAPI) List(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := s.c.Get(ctx, "/admin/subscriptions", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s SubscriptionsAPI) Create(ctx context.Context, data SubscriptionCreate) error {
	return s.c.Post(ctx, "/admin/subscriptions", data, nil)
}

// UpdateStatus changes a subscription's status; cancellations carry the
// operator-provided reason.
func (s SubscriptionsAPI) UpdateStatus(ctx context.Context, id, status, cancelReason string) error {
	body := map[string]string{"status": status}
	if cancelReason != "" {
		body["cancelReason"] = cancelReason
	}
	return s.c.Patch(ctx, "/admin/subscriptions/"+id, body, nil)
}

func (s SubscriptionsAPI) ExpiringSoon(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := s.c.Get(ctx, "/admin/subscriptions/expiring-soon", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// AdminAPI covers the platform-wide super-admin stats.
type AdminAPI struct{ c *Client }

func (a AdminAPI) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := a.c.Get(ctx, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// NotificationsAPI covers customer notifications for bills. Delivery
// itself (SMS/Email/WhatsApp) is the backend's problem.
type NotificationsAPI struct{ c *Client }

func (n NotificationsAPI) SendBillNotification(ctx context.Context, billID, kind string) error {
	return n.c.Post(ctx, "/notifications/bills/"+billID+"/send", map[string]string{"type": kind}, nil)
}

func (n NotificationsAPI) History(ctx context.Context, billID string) ([]map[string]any, error) {
	query := url.Values{}
	if billID != "" {
		query.Set("billId", billID)
	}
	var history []map[string]any
	if err := n.c.Get(ctx, "/notifications/history", query, &history); err != nil {
		return nil, err
	}
	return history, nil
}
