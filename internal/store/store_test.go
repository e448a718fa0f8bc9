package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lodge-dining-backend/internal/model"
)

// newTestDB opens an isolated in-memory database with the full schema. The
// exclusion constraint only exists on Postgres; the store's own overlap check
// keeps these tests honest.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Member{},
		&model.DiningRoom{},
		&model.Table{},
		&model.MenuItem{},
		&model.Reservation{},
		&model.Attendee{},
		&model.Order{},
		&model.OrderItem{},
		&model.SeatAssignment{},
		&model.Message{},
		&model.PushSubscription{},
		&model.RevokedToken{},
	))
	return db
}

func newTestStore(t *testing.T) (Store, *gorm.DB) {
	db := newTestDB(t)
	return NewGormStore(db), db
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role) Actor {
	t.Helper()
	user := model.User{
		Email:        fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return Actor{UserID: user.ID, Role: role}
}

func seedReservation(t *testing.T, s Store, actor Actor, startTime string, endTime *string) *model.Reservation {
	t.Helper()
	reservation, err := s.CreateReservation(context.Background(), actor, ReservationInput{
		Date:      time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC),
		StartTime: startTime,
		EndTime:   endTime,
	})
	require.NoError(t, err)
	return reservation
}

func seedGuestAttendee(t *testing.T, s Store, actor Actor, reservationID int64, name string) *model.Attendee {
	t.Helper()
	attendee, err := s.CreateAttendee(context.Background(), actor, AttendeeInput{
		ReservationID: reservationID,
		GuestName:     &name,
	})
	require.NoError(t, err)
	return attendee
}

func seedTable(t *testing.T, db *gorm.DB, name string) *model.Table {
	t.Helper()
	room := model.DiningRoom{Name: fmt.Sprintf("Room for %s", name), IsActive: true}
	require.NoError(t, db.Create(&room).Error)
	table := model.Table{DiningRoomID: room.ID, Name: name, SeatCount: 4, IsActive: true}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, priceCents int64) *model.MenuItem {
	t.Helper()
	item := model.MenuItem{Name: name, PriceCents: priceCents, IsActive: true}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func strPtr(s string) *string { return &s }
