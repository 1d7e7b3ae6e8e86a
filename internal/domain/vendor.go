package domain

import "time"

type VendorStatus string

const (
	VendorStatusActive    VendorStatus = "active"
	VendorStatusClosed    VendorStatus = "closed"
	VendorStatusSuspended VendorStatus = "suspended"
)

type Vendor struct {
	ID        int
	Name      string
	Slug      string
	Status    VendorStatus
	AuthorID  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
