package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockSessions struct {
	repository.SessionRepository
	mock.Mock
}

func (m *mockSessions) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

type mockUsers struct {
	repository.UserRepository
	mock.Mock
}

func (m *mockUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

// echoIdentity reports what the middleware put on the context.
func echoIdentity(t *testing.T, wantUser uuid.UUID, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantUser, userID)
		role, _ := utils.GetRoleFromContext(r.Context())
		assert.Equal(t, wantRole, role)
		_, ok = utils.GetTokenFromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthSession_ValidSession(t *testing.T) {
	sessions, users := &mockSessions{}, &mockUsers{}
	token, userID := uuid.New(), uuid.New()

	sessions.On("FindValidSession", mock.Anything, token).Return(&entity.Session{UserID: userID, Token: token}, nil)
	user := &entity.User{Role: entity.RoleOwner, IsActive: true}
	user.ID = userID
	users.On("FindByID", mock.Anything, userID).Return(user, nil)

	h := AuthSession(sessions, users, zap.NewNop())(echoIdentity(t, userID, "owner"))

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	sessions.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestAuthSession_Rejections(t *testing.T) {
	token := uuid.New()
	userID := uuid.New()

	cases := []struct {
		name   string
		header string
		setup  func(s *mockSessions, u *mockUsers)
		code   int
	}{
		{name: "missing header", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "malformed token", header: "Bearer not-a-uuid", code: http.StatusUnauthorized},
		{
			name:   "expired session",
			header: "Bearer " + token.String(),
			setup: func(s *mockSessions, _ *mockUsers) {
				s.On("FindValidSession", mock.Anything, token).Return(nil, nil)
			},
			code: http.StatusUnauthorized,
		},
		{
			name:   "session lookup fails",
			header: "Bearer " + token.String(),
			setup: func(s *mockSessions, _ *mockUsers) {
				s.On("FindValidSession", mock.Anything, token).Return(nil, errors.New("conn reset"))
			},
			code: http.StatusInternalServerError,
		},
		{
			name:   "inactive user",
			header: "Bearer " + token.String(),
			setup: func(s *mockSessions, u *mockUsers) {
				s.On("FindValidSession", mock.Anything, token).Return(&entity.Session{UserID: userID}, nil)
				u.On("FindByID", mock.Anything, userID).Return(&entity.User{IsActive: false}, nil)
			},
			code: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions, users := &mockSessions{}, &mockUsers{}
			if tc.setup != nil {
				tc.setup(sessions, users)
			}

			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next handler must not run")
			})
			h := AuthSession(sessions, users, zap.NewNop())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRole(zap.NewNop(), "owner", "admin")(ok)

	serve := func(ctx context.Context) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/owner/dashboard", nil).WithContext(ctx))
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	assert.Equal(t, http.StatusForbidden, serve(utils.SetUserContext(context.Background(), uuid.New(), "customer")))
	assert.Equal(t, http.StatusNoContent, serve(utils.SetUserContext(context.Background(), uuid.New(), "owner")))
	assert.Equal(t, http.StatusNoContent, serve(utils.SetUserContext(context.Background(), uuid.New(), "admin")))
}
