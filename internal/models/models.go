package models

import (
	"time"
)

// Role is the closed set of roles the backend issues. Keep it a distinct
// type so gate decisions can switch over it exhaustively instead of
// comparing loose strings.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
)

// Valid reports whether the role is one the terminal knows about.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

// User - the authenticated principal behind the counter.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	StoreID string `json:"storeId,omitempty"`
}

// Store - a tenant shop. Deactivated stores lock out everyone except
// super admins.
type Store struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	IsActive           bool    `json:"isActive"`
	DeactivationReason *string `json:"deactivationReason"`
}

// Session is the one blob persisted across restarts: who is logged in,
// their store, and the token pair.
type Session struct {
	User         *User  `json:"user"`
	Store        *Store `json:"store,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ItemCategory - a priced service type (e.g. "Shirt"). Server-owned; the
// terminal only caches a snapshot per page visit.
type ItemCategory struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Icon     string  `json:"icon"`
	IsActive bool    `json:"isActive,omitempty"`
}

// BillItem - one line of a bill. Subtotal is computed client-side at
// composition time and recomputed authoritatively by the server.
type BillItem struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Subtotal     float64 `json:"subtotal"`
}

// Customer details attached to a bill.
type Customer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Bill statuses. Only PENDING -> COMPLETED is exposed in the UI;
// cancellation happens server-side.
const (
	BillPending   = "PENDING"
	BillCompleted = "COMPLETED"
	BillCancelled = "CANCELLED"
)

// Bill - an order for ironing/laundry services.
type Bill struct {
	ID          string     `json:"id"`
	BillNumber  string     `json:"billNumber"`
	Customer    Customer   `json:"customer"`
	Items       []BillItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DashboardStats is always computed server-side and fetched after every
// bill mutation - never derived from the cached bill list.
type DashboardStats struct {
	TotalBills     int     `json:"totalBills"`
	PendingBills   int     `json:"pendingBills"`
	CompletedBills int     `json:"completedBills"`
	TodayRevenue   float64 `json:"todayRevenue"`
	WeeklyRevenue  float64 `json:"weeklyRevenue"`
}

// Subscription plans and statuses as the admin console knows them.
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"

	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionSuspended = "SUSPENDED"
	SubscriptionCancelled = "CANCELLED"
)

// Subscription - a store's billing plan, managed by the super admin.
type Subscription struct {
	ID           string  `json:"id"`
	StoreID      string  `json:"storeId"`
	StoreName    string  `json:"storeName,omitempty"`
	Plan         string  `json:"plan"`
	BillingCycle string  `json:"billingCycle"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate,omitempty"`
	CancelReason string  `json:"cancelReason,omitempty"`
}

// StoreSettings is what GET /stores/settings/my-store returns: the
// notification switches plus the store's own activation and plan summary.
type StoreSettings struct {
	EmailNotificationsEnabled    bool          `json:"emailNotificationsEnabled"`
	SMSNotificationsEnabled      bool          `json:"smsNotificationsEnabled"`
	WhatsappNotificationsEnabled bool          `json:"whatsappNotificationsEnabled"`
	IsActive                     bool          `json:"isActive"`
	DeactivationReason           *string       `json:"deactivationReason"`
	Subscription                 *Subscription `json:"subscription,omitempty"`
}

// StoreAccount is the full store record the super admin console sees,
// including approval state and usage counts.
type StoreAccount struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address,omitempty"`
	City               string     `json:"city,omitempty"`
	State              string     `json:"state,omitempty"`
	Pincode            string     `json:"pincode,omitempty"`
	GSTNumber          string     `json:"gstNumber,omitempty"`
	IsApproved         bool       `json:"isApproved"`
	IsActive           bool       `json:"isActive"`
	CreatedAt          time.Time  `json:"createdAt"`
	DeactivationReason *string    `json:"deactivationReason,omitempty"`
	DeactivatedAt      *time.Time `json:"deactivatedAt,omitempty"`
}

// Employee row as listed in the admin's employee page.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminStats - the platform-wide aggregate for the super admin dashboard.
type AdminStats struct {
	TotalStores         int     `json:"totalStores"`
	ActiveStores        int     `json:"activeStores"`
	PendingApproval     int     `json:"pendingApproval"`
	InactiveStores      int     `json:"inactiveStores"`
	TotalSubscriptions  int     `json:"totalSubscriptions"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	ExpiringSoon        int     `json:"expiringSoon"`
	TotalRevenue        float64 `json:"totalRevenue"`
}
