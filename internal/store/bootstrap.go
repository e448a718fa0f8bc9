package store

import (
	"context"

	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// BootstrapResult is a consistent snapshot of a reservation's full ordering
// state. After Bootstrap returns, every attendee is guaranteed to have
// exactly one order.
type BootstrapResult struct {
	Reservation model.Reservation `json:"reservation"`
	PartySize   int               `json:"party_size"`
	Attendees   []model.Attendee  `json:"attendees"`
	Orders      []model.Order     `json:"orders"`
	OrderItems  []model.OrderItem `json:"order_items"`
	Messages    []model.Message   `json:"messages"`

	// Totals in integer cents, over items still in selected status.
	OrderTotals      map[int64]int64 `json:"order_totals"`
	ReservationTotal int64           `json:"reservation_total"`
}

// Bootstrap loads a reservation with attendees, orders, items and messages,
// creating an open order for any attendee missing one. Orders are created and
// committed before totals are computed so the result carries durable ids.
func (s *gormStore) Bootstrap(ctx context.Context, actor Actor, reservationID int64) (*BootstrapResult, error) {
	db := s.db.WithContext(ctx)

	// Self-healing pass: give every attendee an order.
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := reservationForAccess(tx, actor, reservationID); err != nil {
			return err
		}

		var missing []int64
		err := tx.Model(&model.Attendee{}).
			Where("reservation_id = ? AND id NOT IN (?)", reservationID,
				tx.Model(&model.Order{}).Select("attendee_id")).
			Pluck("id", &missing).Error
		if err != nil {
			return classify(err)
		}

		for _, attendeeID := range missing {
			order := model.Order{AttendeeID: attendeeID, Status: model.OrderOpen}
			if err := tx.Create(&order).Error; err != nil {
				return classify(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read pass against committed state.
	var reservation model.Reservation
	if err := db.First(&reservation, reservationID).Error; err != nil {
		return nil, classify(err)
	}

	var attendees []model.Attendee
	if err := db.Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&attendees).Error; err != nil {
		return nil, classify(err)
	}

	attendeeIDs := make([]int64, len(attendees))
	for i, a := range attendees {
		attendeeIDs[i] = a.ID
	}

	var orders []model.Order
	if len(attendeeIDs) > 0 {
		if err := db.Where("attendee_id IN ?", attendeeIDs).
			Order("id ASC").
			Find(&orders).Error; err != nil {
			return nil, classify(err)
		}
	}

	orderIDs := make([]int64, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	var items []model.OrderItem
	if len(orderIDs) > 0 {
		if err := db.Where("order_id IN ?", orderIDs).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return nil, classify(err)
		}
	}

	var messages []model.Message
	if err := db.Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, classify(err)
	}

	// Running cart total: only items not yet fired count. Once FireOrder
	// moves items to confirmed they drop out of this sum.
	totals := make(map[int64]int64, len(orders))
	for _, o := range orders {
		totals[o.ID] = 0
	}
	var grand int64
	for _, item := range items {
		if item.Status != model.ItemSelected {
			continue
		}
		if item.Quantity < 1 || item.PriceCentsSnapshot < 0 {
			continue
		}
		line := int64(item.Quantity) * item.PriceCentsSnapshot
		totals[item.OrderID] += line
		grand += line
	}

	return &BootstrapResult{
		Reservation:      reservation,
		PartySize:        len(attendees),
		Attendees:        attendees,
		Orders:           orders,
		OrderItems:       items,
		Messages:         messages,
		OrderTotals:      totals,
		ReservationTotal: grand,
	}, nil
}
