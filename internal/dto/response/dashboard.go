package response

import "github.com/shopspring/decimal"

type DashboardResponse struct {
	TotalUsers       *int64           `json:"total_users,omitempty"`
	TotalPitches     int64            `json:"total_pitches"`
	TotalBookings    int64            `json:"total_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	Revenue          decimal.Decimal  `json:"revenue"`
	PendingManagers  *int64           `json:"pending_managers,omitempty"`
}
