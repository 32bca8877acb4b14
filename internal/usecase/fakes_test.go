package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// memStore backs every fake repository with maps guarded by one mutex.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	pitches  map[uuid.UUID]*entity.Pitch
	bookings map[uuid.UUID]*entity.Booking
	payments map[uuid.UUID]*entity.Payment
	codes    map[string]*entity.Code
	managers map[uuid.UUID]*entity.Manager
	reviews  map[uuid.UUID]*entity.Review
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*entity.User{},
		sessions: map[uuid.UUID]*entity.Session{},
		pitches:  map[uuid.UUID]*entity.Pitch{},
		bookings: map[uuid.UUID]*entity.Booking{},
		payments: map[uuid.UUID]*entity.Payment{},
		codes:    map[string]*entity.Code{},
		managers: map[uuid.UUID]*entity.Manager{},
		reviews:  map[uuid.UUID]*entity.Review{},
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:    memUsers{m},
		Session: memSessions{m},
		Pitch:   memPitches{m},
		Booking: memBookings{m},
		Payment: memPayments{m},
		Code:    memCodes{m},
		Manager: memManagers{m},
		Review:  memReviews{m},
	}
}

// passTx runs fn directly; the fakes have no rollback.
type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockNotifier struct {
	mock.Mock
}

func (n *mockNotifier) Notify(msg notify.Message) {
	n.Called(msg)
}

// ---- users ----

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Email == u.Email || other.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok && u.DeletedAt == nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r memUsers) find(match func(*entity.User) bool) *entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r memUsers) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

func (r memUsers) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (r memUsers) UpdateRole(_ context.Context, id uuid.UUID, role entity.UserRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		now := time.Now()
		u.DeletedAt = &now
		u.IsActive = false
	}
	return nil
}

func (r memUsers) LockForUpdate(context.Context, uuid.UUID) error { return nil }

func (r memUsers) ApplyStats(_ context.Context, id uuid.UUID, d entity.StatsDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Stats.TotalBookings += d.Bookings
		u.Stats.SuccessfulBookings += d.Successful
		u.Stats.CancelledBookings += d.Cancelled
		u.Stats.TotalSpent = u.Stats.TotalSpent.Add(d.Spent)
	}
	return nil
}

// ---- sessions ----

type memSessions struct{ s *memStore }

func (r memSessions) Create(_ context.Context, sess *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sess
	r.s.sessions[sess.Token] = &cp
	return nil
}

func (r memSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sess, ok := r.s.sessions[token]; ok && sess.RevokedAt == nil {
		cp := *sess
		return &cp, nil
	}
	return nil, nil
}

func (r memSessions) Revoke(_ context.Context, token uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return repository.ErrStaleState
	}
	now := time.Now()
	sess.RevokedAt = &now
	return nil
}

func (r memSessions) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
		}
	}
	return nil
}

// ---- pitches ----

type memPitches struct{ s *memStore }

func (r memPitches) Create(_ context.Context, p *entity.Pitch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.pitches[p.ID] = &cp
	return nil
}

func (r memPitches) FindByID(_ context.Context, id uuid.UUID) (*entity.Pitch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.pitches[id]; ok && p.DeletedAt == nil {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r memPitches) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Pitch, error) {
	var out []*entity.Pitch
	for _, id := range ids {
		if p, _ := r.FindByID(ctx, id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPitches) matching(f repository.PitchFilter) []*entity.Pitch {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Pitch
	for _, p := range r.s.pitches {
		if p.DeletedAt != nil {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memPitches) FindAll(_ context.Context, f repository.PitchFilter) ([]*entity.Pitch, error) {
	return page(r.matching(f), f.Limit, f.Offset), nil
}

func (r memPitches) Count(_ context.Context, f repository.PitchFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

func (r memPitches) Update(_ context.Context, p *entity.Pitch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pitches[p.ID]; !ok {
		return repository.ErrStaleState
	}
	cp := *p
	r.s.pitches[p.ID] = &cp
	return nil
}

func (r memPitches) UpdateRating(_ context.Context, id uuid.UUID, avg float64, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.pitches[id]; ok {
		p.RatingAvg, p.RatingCount = avg, count
	}
	return nil
}

func (r memPitches) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pitches[id]
	if !ok || p.DeletedAt != nil {
		return repository.ErrStaleState
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

// ---- bookings ----

type memBookings struct{ s *memStore }

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}

func (r memBookings) Create(_ context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.bookings {
		if other.PitchID == b.PitchID && sameDay(other.BookingDate, b.BookingDate) &&
			other.Hour == b.Hour && other.Status.HoldsSlot() {
			return repository.ErrSlotTaken
		}
	}
	cp := *b
	r.s.bookings[b.ID] = &cp
	return nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r memBookings) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return r.Search(ctx, repository.BookingFilter{UserID: &userID, Limit: limit, Offset: offset})
}

func (r memBookings) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.CountSearch(ctx, repository.BookingFilter{UserID: &userID})
}

func (r memBookings) BookedHours(_ context.Context, pitchID uuid.UUID, date time.Time) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hours := []int{}
	for _, b := range r.s.bookings {
		if b.PitchID == pitchID && sameDay(b.BookingDate, date) && b.Status.HoldsSlot() {
			hours = append(hours, b.Hour)
		}
	}
	sort.Ints(hours)
	return hours, nil
}

func (r memBookings) SlotTaken(ctx context.Context, pitchID uuid.UUID, date time.Time, hour int) (bool, error) {
	hours, _ := r.BookedHours(ctx, pitchID, date)
	for _, h := range hours {
		if h == hour {
			return true, nil
		}
	}
	return false, nil
}

func (r memBookings) CountConfirmedByUserAndDate(_ context.Context, userID uuid.UUID, date time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.bookings {
		if b.UserID == userID && sameDay(b.BookingDate, date) && b.Status == entity.BookingStatusConfirmed {
			n++
		}
	}
	return n, nil
}

func (r memBookings) HasAttended(_ context.Context, userID, pitchID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.UserID == userID && b.PitchID == pitchID &&
			(b.Status == entity.BookingStatusConfirmed || b.Status == entity.BookingStatusCompleted) {
			return true, nil
		}
	}
	return false, nil
}

func (r memBookings) transition(id uuid.UUID, from []entity.BookingStatus, apply func(*entity.Booking)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return repository.ErrStaleState
	}
	for _, st := range from {
		if b.Status == st {
			apply(b)
			return nil
		}
	}
	return repository.ErrStaleState
}

func (r memBookings) Confirm(_ context.Context, id uuid.UUID, paid, remaining decimal.Decimal) error {
	return r.transition(id, []entity.BookingStatus{entity.BookingStatusPending}, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaidAmount = paid
		b.RemainingAmount = remaining
	})
}

func (r memBookings) Cancel(_ context.Context, id uuid.UUID, p repository.CancelParams) error {
	from := []entity.BookingStatus{entity.BookingStatusPending, entity.BookingStatusConfirmed}
	return r.transition(id, from, func(b *entity.Booking) {
		b.Status = entity.BookingStatusCancelled
		b.CancelledAt = &p.CancelledAt
		b.CancellationReason = p.Reason
		b.RefundAmount = p.RefundAmount
		b.CompensationCode = p.CompensationCode
		b.CancelledBy = &p.CancelledBy
	})
}

func (r memBookings) Complete(_ context.Context, id uuid.UUID) error {
	return r.transition(id, []entity.BookingStatus{entity.BookingStatusConfirmed}, func(b *entity.Booking) {
		b.Status = entity.BookingStatusCompleted
	})
}

func (r memBookings) matching(f repository.BookingFilter) []*entity.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if f.PitchIDs != nil && !containsID(f.PitchIDs, b.PitchID) {
			continue
		}
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r memBookings) Search(_ context.Context, f repository.BookingFilter) ([]*entity.Booking, error) {
	return page(r.matching(f), f.Limit, f.Offset), nil
}

func (r memBookings) CountSearch(_ context.Context, f repository.BookingFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

func (r memBookings) Summary(_ context.Context, pitchIDs []uuid.UUID) (*repository.BookingSummary, error) {
	sum := &repository.BookingSummary{ByStatus: map[entity.BookingStatus]int64{}, Revenue: decimal.Zero}
	for _, b := range r.matching(repository.BookingFilter{PitchIDs: pitchIDs}) {
		sum.ByStatus[b.Status]++
		if b.Status == entity.BookingStatusConfirmed || b.Status == entity.BookingStatusCompleted {
			sum.Revenue = sum.Revenue.Add(b.PaidAmount)
		}
	}
	return sum, nil
}

// ---- payments ----

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.payments {
		if other.BookingID == p.BookingID && other.Status != entity.PaymentStatusFailed {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	r.s.payments[p.ID] = &cp
	return nil
}

func (r memPayments) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r memPayments) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.BookingID == bookingID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memPayments) Settle(_ context.Context, id uuid.UUID, status entity.PaymentStatus, verifiedBy uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return repository.ErrStaleState
	}
	p.Status = status
	p.VerifiedBy, p.VerifiedAt = &verifiedBy, &at
	return nil
}

// ---- codes ----

type memCodes struct{ s *memStore }

func (r memCodes) Create(_ context.Context, c *entity.Code) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.codes[c.Code]; taken {
		return false, nil
	}
	cp := *c
	r.s.codes[c.Code] = &cp
	return true, nil
}

func (r memCodes) FindByCode(_ context.Context, code string) (*entity.Code, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.codes[code]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r memCodes) Consume(_ context.Context, code string, bookingID, userID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[code]
	if !ok {
		return repository.ErrCodeNotFound
	}
	if c.Status != entity.CodeStatusActive {
		return repository.ErrCodeUsed
	}
	if !c.SpendableBy(userID) {
		return repository.ErrCodeNotFound
	}
	if c.IsExpired(at) {
		return repository.ErrCodeExpired
	}
	c.Status = entity.CodeStatusUsed
	c.UsedBy, c.UsedAt, c.UsedBookingID = &userID, &at, &bookingID
	return nil
}

func (r memCodes) matching(f repository.CodeFilter) []*entity.Code {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Code
	for _, c := range r.s.codes {
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.OwnerID != nil && (c.OwnerID == nil || *c.OwnerID != *f.OwnerID) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r memCodes) List(_ context.Context, f repository.CodeFilter) ([]*entity.Code, error) {
	return page(r.matching(f), f.Limit, f.Offset), nil
}

func (r memCodes) Count(_ context.Context, f repository.CodeFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

// ---- managers ----

type memManagers struct{ s *memStore }

func (r memManagers) Create(_ context.Context, m *entity.Manager) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.managers {
		if other.UserID == m.UserID {
			return repository.ErrDuplicate
		}
	}
	cp := *m
	r.s.managers[m.ID] = &cp
	return nil
}

func (r memManagers) FindByID(_ context.Context, id uuid.UUID) (*entity.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.managers[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r memManagers) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.managers {
		if m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memManagers) List(_ context.Context, status entity.ManagerStatus) ([]*entity.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Manager
	for _, m := range r.s.managers {
		if status == "" || m.Status == status {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memManagers) Approve(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.managers[id]
	if !ok || m.Status != entity.ManagerStatusPending {
		return repository.ErrStaleState
	}
	m.Status = entity.ManagerStatusApproved
	m.ApprovedAt = &at
	return nil
}

func (r memManagers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.managers[id]
	if !ok || m.Status != entity.ManagerStatusPending {
		return repository.ErrStaleState
	}
	delete(r.s.managers, id)
	return nil
}

// ---- reviews ----

type memReviews struct{ s *memStore }

func (r memReviews) Create(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.reviews {
		if other.UserID == rv.UserID && other.PitchID == rv.PitchID {
			return repository.ErrDuplicate
		}
	}
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r memReviews) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rv, ok := r.s.reviews[id]; ok {
		cp := *rv
		return &cp, nil
	}
	return nil, nil
}

func (r memReviews) forPitch(pitchID uuid.UUID) []*entity.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.PitchID == pitchID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out
}

func (r memReviews) FindByPitchID(_ context.Context, pitchID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return page(r.forPitch(pitchID), limit, offset), nil
}

func (r memReviews) CountByPitchID(_ context.Context, pitchID uuid.UUID) (int64, error) {
	return int64(len(r.forPitch(pitchID))), nil
}

func (r memReviews) FindByUserAndPitch(_ context.Context, userID, pitchID uuid.UUID) (*entity.Review, error) {
	for _, rv := range r.forPitch(pitchID) {
		if rv.UserID == userID {
			return rv, nil
		}
	}
	return nil, nil
}

func (r memReviews) Update(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r memReviews) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reviews, id)
	return nil
}

func (r memReviews) PitchStats(_ context.Context, pitchID uuid.UUID) (float64, int, error) {
	reviews := r.forPitch(pitchID)
	if len(reviews) == 0 {
		return 0, 0, nil
	}
	total := 0
	for _, rv := range reviews {
		total += rv.Rating
	}
	return float64(total) / float64(len(reviews)), len(reviews), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
