package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// OrderPatch applies a partial update to an order. Status changes go through
// FireOrder/FulfillOrder; a raw status here is an administrative override.
type OrderPatch struct {
	Notes  *string
	Status *string
}

// OrderItemInput adds one line selection to an order. Name and price are
// snapshotted from the menu item inside the same transaction.
type OrderItemInput struct {
	MenuItemID int64
	Quantity   int
	Status     string // optional, defaults to selected
	Meta       datatypes.JSON
}

// OrderItemPatch updates a line selection.
type OrderItemPatch struct {
	Quantity *int
	Status   *string
	Meta     datatypes.JSON
}

// EnsureOrder returns the attendee's order, creating an open one if none
// exists yet. Calling it twice returns the same order; the unique attendee_id
// index keeps concurrent callers from creating two.
func (s *gormStore) EnsureOrder(ctx context.Context, actor Actor, attendeeID int64) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := attendeeForAccess(tx, actor, attendeeID); err != nil {
			return err
		}

		err := tx.Where("attendee_id = ?", attendeeID).First(&order).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return classify(err)
		}

		order = model.Order{AttendeeID: attendeeID, Status: model.OrderOpen}
		return classify(tx.Create(&order).Error)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder edits notes, and status only as a staff override. Members are
// locked out once the order has been fired.
func (s *gormStore) UpdateOrder(ctx context.Context, actor Actor, orderID int64, patch OrderPatch) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = orderForAccess(tx, actor, orderID)
		if err != nil {
			return err
		}

		if order.Status.Locked() && !actor.Role.IsStaff() {
			return errf(KindLocked, "order is %s and can no longer be edited", order.Status)
		}

		if patch.Status != nil {
			if !actor.Role.IsStaff() {
				return errf(KindForbidden, "only staff may set order status directly")
			}
			next, ok := model.ParseOrderStatus(*patch.Status)
			if !ok {
				return errf(KindInvalidTransition, "unknown order status %q", *patch.Status)
			}
			order.Status = next
		}
		if patch.Notes != nil {
			order.Notes = *patch.Notes
		}
		return classify(tx.Save(order).Error)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FireOrder sends an order to the kitchen: open -> fired, and every item
// still in selected moves to confirmed. Items already served or canceled are
// left untouched. This is the only place item status changes as a side effect
// of order status.
func (s *gormStore) FireOrder(ctx context.Context, actor Actor, orderID int64) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = orderForAccess(tx, actor, orderID)
		if err != nil {
			return err
		}

		switch order.Status {
		case model.OrderFired:
			return errf(KindInvalidTransition, "order already fired")
		case model.OrderFulfilled:
			return errf(KindInvalidTransition, "order already fulfilled")
		}

		var itemCount int64
		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ?", order.ID).
			Count(&itemCount).Error; err != nil {
			return classify(err)
		}
		if itemCount == 0 {
			return errf(KindEmptyOrder, "cannot fire an empty order")
		}

		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ? AND status = ?", order.ID, model.ItemSelected).
			Update("status", model.ItemConfirmed).Error; err != nil {
			return classify(err)
		}

		order.Status = model.OrderFired
		if err := tx.Save(order).Error; err != nil {
			return classify(err)
		}
		return classify(tx.Where("order_id = ?", order.ID).Order("id ASC").Find(&order.Items).Error)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FulfillOrder marks a fired order as served out. Staff only; the only legal
// predecessor state is fired.
func (s *gormStore) FulfillOrder(ctx context.Context, actor Actor, orderID int64) (*model.Order, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = orderForAccess(tx, actor, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderFired {
			return errf(KindInvalidTransition, "only fired orders can be fulfilled; order is %s", order.Status)
		}
		order.Status = model.OrderFulfilled
		return classify(tx.Save(order).Error)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddOrderItem appends a selection, snapshotting the menu item's name and
// price so later menu edits cannot rewrite history.
func (s *gormStore) AddOrderItem(ctx context.Context, actor Actor, orderID int64, in OrderItemInput) (*model.OrderItem, error) {
	status := model.ItemSelected
	if in.Status != "" {
		parsed, ok := model.ParseOrderItemStatus(in.Status)
		if !ok {
			return nil, errf(KindInvalidTransition, "unknown order item status %q", in.Status)
		}
		status = parsed
	}
	if in.Quantity < 1 {
		return nil, errf(KindInvalidArgument, "quantity must be at least 1")
	}

	var item model.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := orderForAccess(tx, actor, orderID)
		if err != nil {
			return err
		}
		if order.Status.Locked() && !actor.Role.IsStaff() {
			return errf(KindLocked, "order is %s and can no longer be edited", order.Status)
		}

		var menuItem model.MenuItem
		if err := tx.First(&menuItem, in.MenuItemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "menu item %d not found", in.MenuItemID)
			}
			return classify(err)
		}

		item = model.OrderItem{
			OrderID:            order.ID,
			MenuItemID:         menuItem.ID,
			Quantity:           in.Quantity,
			Status:             status,
			NameSnapshot:       menuItem.Name,
			PriceCentsSnapshot: menuItem.PriceCents,
			Meta:               in.Meta,
		}
		return classify(tx.Create(&item).Error)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListOrderItems returns an order's items in insertion order.
func (s *gormStore) ListOrderItems(ctx context.Context, actor Actor, orderID int64) ([]model.OrderItem, error) {
	if _, err := orderForAccess(s.db.WithContext(ctx), actor, orderID); err != nil {
		return nil, err
	}

	var items []model.OrderItem
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

// UpdateOrderItem edits quantity, status or meta. Items are never deleted;
// canceling is a status transition so history stays intact.
func (s *gormStore) UpdateOrderItem(ctx context.Context, actor Actor, itemID int64, patch OrderItemPatch) (*model.OrderItem, error) {
	var item model.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "order item %d not found", itemID)
			}
			return classify(err)
		}

		order, err := orderForAccess(tx, actor, item.OrderID)
		if err != nil {
			return err
		}
		if order.Status.Locked() && !actor.Role.IsStaff() {
			return errf(KindLocked, "order is %s and can no longer be edited", order.Status)
		}

		if patch.Quantity != nil {
			if *patch.Quantity < 1 {
				return errf(KindInvalidArgument, "quantity must be at least 1")
			}
			item.Quantity = *patch.Quantity
		}
		if patch.Status != nil {
			next, ok := model.ParseOrderItemStatus(*patch.Status)
			if !ok {
				return errf(KindInvalidTransition, "unknown order item status %q", *patch.Status)
			}
			item.Status = next
		}
		if patch.Meta != nil {
			item.Meta = patch.Meta
		}
		return classify(tx.Save(&item).Error)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Chit is the kitchen-facing rendering of an order: who it is for, where they
// sit, what the kitchen must know, and the committed items.
type Chit struct {
	OrderID   int64      `json:"order_id"`
	GuestName string     `json:"guest_name"`
	SeatInfo  string     `json:"seat_info"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	Dietary   []string   `json:"dietary_restrictions"`
	Items     []ChitLine `json:"items"`
	FiredAt   time.Time  `json:"fired_at"`
}

// ChitLine is one printable line on a chit.
type ChitLine struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// OrderChit assembles the chit for an order, including selected items so a
// chit can be previewed before firing.
func (s *gormStore) OrderChit(ctx context.Context, actor Actor, orderID int64) (*Chit, error) {
	db := s.db.WithContext(ctx)

	order, err := orderForAccess(db, actor, orderID)
	if err != nil {
		return nil, err
	}

	var attendee model.Attendee
	if err := db.Preload("Member").First(&attendee, order.AttendeeID).Error; err != nil {
		return nil, classify(err)
	}
	var reservation model.Reservation
	if err := db.First(&reservation, attendee.ReservationID).Error; err != nil {
		return nil, classify(err)
	}

	seatInfo := "Unassigned"
	var assignment model.SeatAssignment
	err = db.Preload("Table.DiningRoom").
		Where("reservation_id = ?", reservation.ID).
		First(&assignment).Error
	if err == nil && assignment.Table != nil {
		seatInfo = assignment.Table.Name
		if assignment.Table.DiningRoom != nil {
			seatInfo = assignment.Table.DiningRoom.Name + " - " + assignment.Table.Name
		}
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, classify(err)
	}

	name := "Guest"
	if attendee.Member != nil {
		name = attendee.Member.Name
	} else if attendee.GuestName != nil && *attendee.GuestName != "" {
		name = *attendee.GuestName
	}

	var dietary []string
	if len(attendee.DietaryRestrictions) > 0 {
		// Malformed tags are skipped rather than failing the chit.
		_ = json.Unmarshal(attendee.DietaryRestrictions, &dietary)
	}

	var items []model.OrderItem
	if err := db.Where("order_id = ? AND status IN ?", order.ID,
		[]model.OrderItemStatus{model.ItemSelected, model.ItemConfirmed}).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, classify(err)
	}

	chit := &Chit{
		OrderID:   order.ID,
		GuestName: name,
		SeatInfo:  seatInfo,
		Date:      reservation.Date.Format("2006-01-02"),
		StartTime: reservation.StartTime,
		Dietary:   dietary,
		FiredAt:   time.Now().UTC(),
	}
	for _, item := range items {
		chit.Items = append(chit.Items, ChitLine{
			Name:       item.NameSnapshot,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCentsSnapshot,
		})
	}
	return chit, nil
}
