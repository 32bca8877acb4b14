package entity

import "github.com/shopspring/decimal"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleOwner    UserRole = "owner"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
	Stats        UserStats
}

// UserStats is a best-effort projection of the user's booking history.
type UserStats struct {
	TotalBookings      int             `db:"total_bookings"`
	SuccessfulBookings int             `db:"successful_bookings"`
	CancelledBookings  int             `db:"cancelled_bookings"`
	TotalSpent         decimal.Decimal `db:"total_spent"`
}

// StatsDelta is added to UserStats in one statement.
type StatsDelta struct {
	Bookings   int
	Successful int
	Cancelled  int
	Spent      decimal.Decimal
}
