package response

import (
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	Role      entity.UserRole `json:"role"`
}

type UserStatsResponse struct {
	TotalBookings      int             `json:"total_bookings"`
	SuccessfulBookings int             `json:"successful_bookings"`
	CancelledBookings  int             `json:"cancelled_bookings"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
}

type UserResponse struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Phone     *string           `json:"phone,omitempty"`
	Role      entity.UserRole   `json:"role"`
	IsActive  bool              `json:"is_active"`
	Stats     UserStatsResponse `json:"stats"`
	CreatedAt time.Time         `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     user.Role,
		IsActive: user.IsActive,
		Stats: UserStatsResponse{
			TotalBookings:      user.Stats.TotalBookings,
			SuccessfulBookings: user.Stats.SuccessfulBookings,
			CancelledBookings:  user.Stats.CancelledBookings,
			TotalSpent:         user.Stats.TotalSpent,
		},
		CreatedAt: user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
