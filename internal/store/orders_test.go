package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodge-dining-backend/internal/model"
)

func TestEnsureOrder(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)
	reservation := seedReservation(t, s, actor, "18:00", nil)
	attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Ada")

	first, err := s.EnsureOrder(ctx, actor, attendee.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderOpen, first.Status)

	second, err := s.EnsureOrder(ctx, actor, attendee.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Where("attendee_id = ?", attendee.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	t.Run("stranger is rejected", func(t *testing.T) {
		stranger := seedUser(t, db, model.RoleMember)
		_, err := s.EnsureOrder(ctx, stranger, attendee.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestAddOrderItemSnapshots(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)
	reservation := seedReservation(t, s, actor, "18:00", nil)
	attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Ada")
	order, err := s.EnsureOrder(ctx, actor, attendee.ID)
	require.NoError(t, err)

	menuItem := seedMenuItem(t, db, "Trout Almondine", 2400)
	item, err := s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, model.ItemSelected, item.Status)
	assert.Equal(t, "Trout Almondine", item.NameSnapshot)
	assert.EqualValues(t, 2400, item.PriceCentsSnapshot)

	// Later price edits must not rewrite the snapshot.
	require.NoError(t, db.Model(menuItem).Update("price_cents", 9900).Error)
	items, err := s.ListOrderItems(ctx, actor, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 2400, items[0].PriceCentsSnapshot)

	t.Run("zero quantity is rejected", func(t *testing.T) {
		_, err := s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 0})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("unknown menu item", func(t *testing.T) {
		_, err := s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: 9999, Quantity: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFireOrder(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)
	reservation := seedReservation(t, s, actor, "18:00", nil)
	menuItem := seedMenuItem(t, db, "Roast Duck", 3600)

	t.Run("empty order cannot fire", func(t *testing.T) {
		attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Ada")
		order, err := s.EnsureOrder(ctx, actor, attendee.ID)
		require.NoError(t, err)

		_, err = s.FireOrder(ctx, actor, order.ID)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("fire sweeps selected to confirmed, leaves canceled alone", func(t *testing.T) {
		attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Grace")
		order, err := s.EnsureOrder(ctx, actor, attendee.ID)
		require.NoError(t, err)

		_, err = s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 1})
		require.NoError(t, err)
		canceled, err := s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = s.UpdateOrderItem(ctx, actor, canceled.ID, OrderItemPatch{Status: strPtr("canceled")})
		require.NoError(t, err)

		fired, err := s.FireOrder(ctx, actor, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderFired, fired.Status)
		require.Len(t, fired.Items, 2)

		statuses := map[model.OrderItemStatus]int{}
		for _, item := range fired.Items {
			statuses[item.Status]++
		}
		assert.Equal(t, 1, statuses[model.ItemConfirmed])
		assert.Equal(t, 1, statuses[model.ItemCanceled])

		t.Run("double fire is rejected", func(t *testing.T) {
			_, err := s.FireOrder(ctx, actor, order.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})

		t.Run("member edits are locked after firing", func(t *testing.T) {
			_, err := s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 1})
			assert.ErrorIs(t, err, ErrLocked)

			_, err = s.UpdateOrder(ctx, actor, order.ID, OrderPatch{Notes: strPtr("extra sauce")})
			assert.ErrorIs(t, err, ErrLocked)
		})

		t.Run("staff may still edit", func(t *testing.T) {
			staff := seedUser(t, db, model.RoleStaff)
			_, err := s.UpdateOrder(ctx, staff, order.ID, OrderPatch{Notes: strPtr("table asked to hold mains")})
			assert.NoError(t, err)
		})
	})
}

func TestFulfillOrder(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)
	staff := seedUser(t, db, model.RoleStaff)
	reservation := seedReservation(t, s, actor, "18:00", nil)
	menuItem := seedMenuItem(t, db, "Roast Duck", 3600)

	attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Ada")
	order, err := s.EnsureOrder(ctx, actor, attendee.ID)
	require.NoError(t, err)
	_, err = s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 1})
	require.NoError(t, err)

	t.Run("members may not fulfill", func(t *testing.T) {
		_, err := s.FulfillOrder(ctx, actor, order.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("open orders cannot be fulfilled", func(t *testing.T) {
		_, err := s.FulfillOrder(ctx, staff, order.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("fired orders can", func(t *testing.T) {
		_, err := s.FireOrder(ctx, actor, order.ID)
		require.NoError(t, err)

		fulfilled, err := s.FulfillOrder(ctx, staff, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderFulfilled, fulfilled.Status)

		_, err = s.FulfillOrder(ctx, staff, order.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestOrderStatusOverride(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)
	staff := seedUser(t, db, model.RoleStaff)
	reservation := seedReservation(t, s, actor, "18:00", nil)

	attendee := seedGuestAttendee(t, s, actor, reservation.ID, "Ada")
	order, err := s.EnsureOrder(ctx, actor, attendee.ID)
	require.NoError(t, err)

	_, err = s.UpdateOrder(ctx, actor, order.ID, OrderPatch{Status: strPtr("fired")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := s.UpdateOrder(ctx, staff, order.ID, OrderPatch{Status: strPtr("fired")})
	require.NoError(t, err)
	assert.Equal(t, model.OrderFired, updated.Status)

	_, err = s.UpdateOrder(ctx, staff, order.ID, OrderPatch{Status: strPtr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderChit(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	actor := seedUser(t, db, model.RoleMember)
	staff := seedUser(t, db, model.RoleStaff)
	table := seedTable(t, db, "T7")
	menuItem := seedMenuItem(t, db, "Roast Duck", 3600)

	reservation := seedReservation(t, s, actor, "18:00", strPtr("20:00"))
	_, err := s.CreateSeatAssignment(ctx, staff, SeatAssignmentInput{ReservationID: reservation.ID, TableID: table.ID})
	require.NoError(t, err)

	attendee, err := s.CreateAttendee(ctx, actor, AttendeeInput{
		ReservationID:       reservation.ID,
		GuestName:           strPtr("Ada"),
		DietaryRestrictions: []byte(`["vegan","nut_allergy"]`),
	})
	require.NoError(t, err)
	order, err := s.EnsureOrder(ctx, actor, attendee.ID)
	require.NoError(t, err)
	_, err = s.AddOrderItem(ctx, actor, order.ID, OrderItemInput{MenuItemID: menuItem.ID, Quantity: 2})
	require.NoError(t, err)

	chit, err := s.OrderChit(ctx, actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", chit.GuestName)
	assert.Contains(t, chit.SeatInfo, "T7")
	assert.Equal(t, "2026-02-24", chit.Date)
	assert.Equal(t, []string{"vegan", "nut_allergy"}, chit.Dietary)
	require.Len(t, chit.Items, 1)
	assert.Equal(t, "Roast Duck", chit.Items[0].Name)
	assert.Equal(t, 2, chit.Items[0].Quantity)
	assert.EqualValues(t, 3600, chit.Items[0].PriceCents)
}
