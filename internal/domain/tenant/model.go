package tenant

import (
	"time"
)

// Context represents the resolved tenant scope for a request. Every store and
// cache operation is keyed by BookID; a tenant owns one or more books.
type Context struct {
	TenantID string
	UserID   string
	BookID   string
}

// Tenant represents a tenant (a club or organization using the bookkeeping app)
type Tenant struct {
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    string
	OwnerID   string
	Settings  map[string]interface{}
}
