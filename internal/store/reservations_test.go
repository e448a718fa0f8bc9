package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)

	t.Run("defaults to draft and derives a code", func(t *testing.T) {
		reservation, err := s.CreateReservation(ctx, actor, ReservationInput{
			Date:      time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC),
			StartTime: "18:30",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReservationDraft, reservation.Status)
		assert.Regexp(t, `^ABY-20260224-1830-DR00-U\d{4}-R\d{4}$`, reservation.ReservationCode)
	})

	t.Run("accepts an explicit status", func(t *testing.T) {
		reservation, err := s.CreateReservation(ctx, actor, ReservationInput{
			Date:      time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
			StartTime: "19:00",
			Status:    "Confirmed",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReservationConfirmed, reservation.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, err := s.CreateReservation(ctx, actor, ReservationInput{
			Date:      time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
			StartTime: "19:00",
			Status:    "pending",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		_, err := s.CreateReservation(ctx, actor, ReservationInput{
			Date:      time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
			StartTime: "6pm",
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestListReservations(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	alice := seedUser(t, db, model.RoleMember)
	bob := seedUser(t, db, model.RoleMember)
	staff := seedUser(t, db, model.RoleStaff)

	seedReservation(t, s, alice, "18:00", nil)
	seedReservation(t, s, alice, "12:00", nil)
	seedReservation(t, s, bob, "19:00", nil)

	t.Run("members see only their own, ordered by time", func(t *testing.T) {
		reservations, err := s.ListReservations(ctx, alice, ReservationFilter{})
		require.NoError(t, err)
		require.Len(t, reservations, 2)
		assert.Equal(t, "12:00", reservations[0].StartTime)
		assert.Equal(t, "18:00", reservations[1].StartTime)
	})

	t.Run("staff see everything", func(t *testing.T) {
		reservations, err := s.ListReservations(ctx, staff, ReservationFilter{})
		require.NoError(t, err)
		assert.Len(t, reservations, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		status := model.ReservationConfirmed
		reservations, err := s.ListReservations(ctx, alice, ReservationFilter{Status: &status})
		require.NoError(t, err)
		assert.Empty(t, reservations)
	})
}

func TestUpdateReservationLifecycle(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)

	t.Run("draft fields are editable", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		updated, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{
			StartTime: strPtr("19:00"),
			Notes:     strPtr("anniversary"),
		})
		require.NoError(t, err)
		assert.Equal(t, "19:00", updated.StartTime)
		assert.Equal(t, "anniversary", updated.Notes)
		assert.Contains(t, updated.ReservationCode, "-1900-")
	})

	t.Run("confirmed locks non-status fields", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		_, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("confirmed")})
		require.NoError(t, err)

		_, err = s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{StartTime: strPtr("20:00")})
		assert.ErrorIs(t, err, ErrLocked)

		// Status-only updates still go through.
		updated, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("cancelled")})
		require.NoError(t, err)
		assert.Equal(t, model.ReservationCancelled, updated.Status)
	})

	t.Run("unknown status is an invalid transition", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		_, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("pending")})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancelled cannot jump straight to confirmed", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		_, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("cancelled")})
		require.NoError(t, err)

		_, err = s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("confirmed")})
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// Reopening as draft is the supported path.
		updated, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("draft")})
		require.NoError(t, err)
		assert.Equal(t, model.ReservationDraft, updated.Status)
	})

	t.Run("stranger cannot touch it", func(t *testing.T) {
		stranger := seedUser(t, db, model.RoleMember)
		reservation := seedReservation(t, s, actor, "18:00", nil)
		_, err := s.UpdateReservation(ctx, stranger, reservation.ID, ReservationPatch{Notes: strPtr("hi")})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestDeleteReservation(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)

	t.Run("confirmed cannot be deleted", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		_, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("confirmed")})
		require.NoError(t, err)

		assert.ErrorIs(t, s.DeleteReservation(ctx, actor, reservation.ID), ErrLocked)
	})

	t.Run("draft deletion removes the whole graph", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Ada")
		order, err := s.EnsureOrder(ctx, actor, attendee.ID)
		require.NoError(t, err)

		menuItem := seedMenuItem(t, db, "Trout", 2400)
		_, err = s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = s.CreateMessage(ctx, actor, reservation.ID, "no rush")
		require.NoError(t, err)

		require.NoError(t, s.DeleteReservation(ctx, actor, reservation.ID))

		assert.ErrorIs(t, db.First(&model.Reservation{}, reservation.ID).Error, gorm.ErrRecordNotFound)
		assert.ErrorIs(t, db.First(&model.Attendee{}, attendee.ID).Error, gorm.ErrRecordNotFound)
		assert.ErrorIs(t, db.First(&model.Order{}, order.ID).Error, gorm.ErrRecordNotFound)

		var itemCount, messageCount int64
		require.NoError(t, db.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
		require.NoError(t, db.Model(&model.Message{}).Where("reservation_id = ?", reservation.ID).Count(&messageCount).Error)
		assert.Zero(t, itemCount)
		assert.Zero(t, messageCount)
	})

	t.Run("cancelled can be deleted", func(t *testing.T) {
		reservation := seedReservation(t, s, actor, "18:00", nil)
		_, err := s.UpdateReservation(ctx, actor, reservation.ID, ReservationPatch{Status: strPtr("cancelled")})
		require.NoError(t, err)
		assert.NoError(t, s.DeleteReservation(ctx, actor, reservation.ID))
	})
}
