package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lodge-dining-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Reservation{}, &model.PushSubscription{}))
	return db
}

func seedStaffSubscription(t *testing.T, db *gorm.DB, endpoint string) {
	t.Helper()
	user := model.User{Email: endpoint + "@example.com", PasswordHash: "x", Role: model.RoleStaff, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: endpoint,
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
		UserID:   user.ID,
	}).Error)
}

func seedReservation(t *testing.T, db *gorm.DB) *model.Reservation {
	t.Helper()
	owner := model.User{Email: "owner@example.com", PasswordHash: "x", Role: model.RoleMember, IsActive: true}
	require.NoError(t, db.Create(&owner).Error)
	reservation := model.Reservation{
		UserID:          owner.ID,
		Date:            time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:30",
		Status:          model.ReservationConfirmed,
		ReservationCode: "ABY-20260224-1830-DR00-U0001-R0001",
	}
	require.NoError(t, db.Create(&reservation).Error)
	return &reservation
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.Dispatch(Event{Kind: EventOrderFired, ReservationID: 123, OrderID: 7})

	select {
	case job := <-wp.jobs:
		assert.Equal(t, EventOrderFired, job.Kind)
		assert.EqualValues(t, 123, job.ReservationID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	// No worker is draining; the second dispatch must not block.
	wp.Dispatch(Event{Kind: EventOrderFired, ReservationID: 1})
	done := make(chan struct{})
	go func() {
		wp.Dispatch(Event{Kind: EventOrderFired, ReservationID: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func TestWorkerPool_SendsToStaffOnly(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})
	reservation := seedReservation(t, db)
	seedStaffSubscription(t, db, "https://example.com/push")

	// A member device must never receive kitchen events.
	member := model.User{Email: "member@example.com", PasswordHash: "x", Role: model.RoleMember, IsActive: true}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/member",
		P256DH:   "p", Auth: "a", UserID: member.ID,
	}).Error)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Equal(t, "Order 7 fired for ABY-20260224-1830-DR00-U0001-R0001", string(payload))
			wg.Done()
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	wp.Dispatch(Event{Kind: EventOrderFired, ReservationID: reservation.ID, OrderID: 7})
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})
	reservation := seedReservation(t, db)
	seedStaffSubscription(t, db, "https://example.com/expired")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	sent := make(chan struct{})
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer close(sent)
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	wp.Dispatch(Event{Kind: EventMessagePosted, ReservationID: reservation.ID})
	<-sent

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&model.PushSubscription{}).
			Where("endpoint = ?", "https://example.com/expired").
			Count(&count)
		return count == 0
	}, 2*time.Second, 50*time.Millisecond)
}
