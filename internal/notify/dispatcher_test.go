package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestDispatcher_RetriesUntilSuccess(t *testing.T) {
	sender := new(mockSender)
	msg := Message{Kind: KindBookingCreated, To: "a@example.com"}

	sender.On("Send", mock.Anything, msg).Return(errors.New("broker down")).Twice()
	sender.On("Send", mock.Anything, msg).Return(nil).Once()

	d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 4, MaxAttempts: 3, Backoff: time.Millisecond}, zap.NewNop())
	d.Notify(msg)
	require.NoError(t, d.Close(context.Background()))

	sender.AssertNumberOfCalls(t, "Send", 3)
	sender.AssertExpectations(t)
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	sender := new(mockSender)
	msg := Message{Kind: KindBookingCancelled}

	sender.On("Send", mock.Anything, msg).Return(errors.New("broker down"))

	d := NewDispatcher(sender, Options{Workers: 2, QueueSize: 4, MaxAttempts: 2, Backoff: time.Millisecond}, zap.NewNop())
	d.Notify(msg)
	require.NoError(t, d.Close(context.Background()))

	sender.AssertNumberOfCalls(t, "Send", 2)
}

type blockingSender struct {
	started chan struct{}
	release chan struct{}

	mu   sync.Mutex
	sent []Message
	once sync.Once
}

func (s *blockingSender) Send(_ context.Context, msg Message) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 1, MaxAttempts: 1}, zap.NewNop())

	d.Notify(Message{Kind: KindBookingCreated, To: "first"})
	<-sender.started

	d.Notify(Message{Kind: KindBookingCreated, To: "queued"})
	d.Notify(Message{Kind: KindBookingCreated, To: "dropped"})

	close(sender.release)
	require.NoError(t, d.Close(context.Background()))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "first", sender.sent[0].To)
	assert.Equal(t, "queued", sender.sent[1].To)
}

func TestDispatcher_NotifyAfterCloseIsDropped(t *testing.T) {
	sender := new(mockSender)
	d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 1, MaxAttempts: 1}, zap.NewNop())
	require.NoError(t, d.Close(context.Background()))

	d.Notify(Message{Kind: KindBookingConfirmed})
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "notification.booking_confirmed", RoutingKey(KindBookingConfirmed))
}
