package adaptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubBookings implements only the calls exercised below.
type stubBookings struct {
	usecase.BookingService

	gotActor  usecase.Actor
	gotID     uuid.UUID
	payStatus entity.PaymentStatus
	err       error
}

func (s *stubBookings) ConfirmPayment(_ context.Context, actor usecase.Actor, bookingID uuid.UUID, _ *request.ConfirmPaymentRequest) (*response.PaymentResultResponse, error) {
	s.gotActor, s.gotID = actor, bookingID
	if s.err != nil {
		return nil, s.err
	}
	return &response.PaymentResultResponse{Payment: response.PaymentResponse{Status: s.payStatus}}, nil
}

func (s *stubBookings) Receipt(_ context.Context, _ usecase.Actor, bookingID uuid.UUID) ([]byte, string, error) {
	s.gotID = bookingID
	return []byte("%PDF-1.3"), "receipt.pdf", s.err
}

func newBookingRouter(svc usecase.BookingService, userID uuid.UUID) http.Handler {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(utils.SetUserContext(r.Context(), userID, string(entity.RoleCustomer)))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/api/bookings/{id}/pay", h.ConfirmPayment)
	r.Get("/api/bookings/{id}/receipt", h.Receipt)
	return r
}

func TestConfirmPayment_CardIsOK(t *testing.T) {
	svc := &stubBookings{payStatus: entity.PaymentStatusConfirmed}
	userID, bookingID := uuid.New(), uuid.New()

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"provider":"card","transaction_id":"tx-1","amount":"75"}`)
	newBookingRouter(svc, userID).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/"+bookingID.String()+"/pay", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingID, svc.gotID)
	assert.Equal(t, userID, svc.gotActor.UserID)
	assert.Equal(t, entity.RoleCustomer, svc.gotActor.Role)
}

func TestConfirmPayment_BankTransferIsAccepted(t *testing.T) {
	svc := &stubBookings{payStatus: entity.PaymentStatusPending}

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"provider":"bank_transfer","transaction_id":"tx-2","amount":"75"}`)
	newBookingRouter(svc, uuid.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/"+uuid.NewString()+"/pay", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestConfirmPayment_RejectsBadInput(t *testing.T) {
	svc := &stubBookings{}
	router := newBookingRouter(svc, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/not-a-uuid/pay", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/"+uuid.NewString()+"/pay", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, uuid.Nil, svc.gotID)
}

func TestConfirmPayment_WrongAmount(t *testing.T) {
	svc := &stubBookings{err: usecase.ErrInvalidAmount}

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"provider":"card","transaction_id":"tx-3","amount":"70"}`)
	newBookingRouter(svc, uuid.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/"+uuid.NewString()+"/pay", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestConfirmPayment_RequiresAuthentication(t *testing.T) {
	rec := httptest.NewRecorder()
	newBookingRouter(&stubBookings{}, uuid.Nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/"+uuid.NewString()+"/pay", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReceipt_WritesPDF(t *testing.T) {
	svc := &stubBookings{}

	rec := httptest.NewRecorder()
	newBookingRouter(svc, uuid.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/"+uuid.NewString()+"/receipt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "receipt.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}
