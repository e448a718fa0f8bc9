package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// ReservationInput creates a reservation for the acting user.
type ReservationInput struct {
	Date         time.Time
	StartTime    string
	EndTime      *string
	Status       string // optional raw status, defaults to draft
	Notes        string
	DiningRoomID *int64
}

// ReservationPatch applies a partial update. Nil fields are left untouched.
type ReservationPatch struct {
	Date         *time.Time
	StartTime    *string
	EndTime      *string
	Status       *string
	Notes        *string
	DiningRoomID *int64
}

// touchesNonStatusFields reports whether the patch edits anything besides status.
func (p ReservationPatch) touchesNonStatusFields() bool {
	return p.Date != nil || p.StartTime != nil || p.EndTime != nil || p.Notes != nil || p.DiningRoomID != nil
}

// ReservationFilter narrows a listing.
type ReservationFilter struct {
	Status   *model.ReservationStatus
	FromDate *time.Time
	ToDate   *time.Time
}

func validateClock(raw string) error {
	if _, err := time.Parse("15:04", raw); err != nil {
		return errf(KindInvalidArgument, "time %q is not in HH:MM form", raw)
	}
	return nil
}

// CreateReservation creates a reservation owned by the actor, in draft unless
// a valid status was supplied. The derived reservation code needs the row id,
// so it is written in a second step of the same transaction.
func (s *gormStore) CreateReservation(ctx context.Context, actor Actor, in ReservationInput) (*model.Reservation, error) {
	if err := validateClock(in.StartTime); err != nil {
		return nil, err
	}
	if in.EndTime != nil {
		if err := validateClock(*in.EndTime); err != nil {
			return nil, err
		}
	}

	status := model.ReservationDraft
	if in.Status != "" {
		parsed, ok := model.ParseReservationStatus(in.Status)
		if !ok {
			return nil, errf(KindInvalidTransition, "unknown reservation status %q", in.Status)
		}
		status = parsed
	}

	reservation := model.Reservation{
		UserID:       actor.UserID,
		DiningRoomID: in.DiningRoomID,
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       status,
		Notes:        in.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reservation).Error; err != nil {
			return classify(err)
		}
		reservation.ReservationCode = reservation.Code()
		return classify(tx.Model(&reservation).
			Update("reservation_code", reservation.ReservationCode).Error)
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListReservations returns the actor's reservations (all reservations for
// staff), optionally filtered by status and date range.
func (s *gormStore) ListReservations(ctx context.Context, actor Actor, f ReservationFilter) ([]model.Reservation, error) {
	q := s.db.WithContext(ctx).Model(&model.Reservation{})
	if !actor.Role.IsStaff() {
		q = q.Where("user_id = ?", actor.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}

	var reservations []model.Reservation
	if err := q.Order("date ASC, start_time ASC").Find(&reservations).Error; err != nil {
		return nil, classify(err)
	}
	return reservations, nil
}

// GetReservation returns one reservation after an ownership check.
func (s *gormStore) GetReservation(ctx context.Context, actor Actor, id int64) (*model.Reservation, error) {
	return reservationForAccess(s.db.WithContext(ctx), actor, id)
}

// UpdateReservation applies a lifecycle-gated partial update. Outside draft
// only the status field may change; an unknown or illegal target status is
// rejected before anything is written.
func (s *gormStore) UpdateReservation(ctx context.Context, actor Actor, id int64, patch ReservationPatch) (*model.Reservation, error) {
	var reservation *model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = reservationForAccess(tx, actor, id)
		if err != nil {
			return err
		}

		if patch.touchesNonStatusFields() && !reservation.Status.FieldsEditable() {
			return errf(KindLocked, "reservation is %s; only status may change", reservation.Status)
		}

		if patch.Status != nil {
			next, ok := model.ParseReservationStatus(*patch.Status)
			if !ok {
				return errf(KindInvalidTransition, "unknown reservation status %q", *patch.Status)
			}
			if !reservation.Status.CanTransitionTo(next) {
				return errf(KindInvalidTransition, "cannot move reservation from %s to %s", reservation.Status, next)
			}
			reservation.Status = next
		}

		if patch.Date != nil {
			reservation.Date = *patch.Date
		}
		if patch.StartTime != nil {
			if err := validateClock(*patch.StartTime); err != nil {
				return err
			}
			reservation.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			if *patch.EndTime == "" {
				reservation.EndTime = nil
			} else {
				if err := validateClock(*patch.EndTime); err != nil {
					return err
				}
				reservation.EndTime = patch.EndTime
			}
		}
		if patch.Notes != nil {
			reservation.Notes = *patch.Notes
		}
		if patch.DiningRoomID != nil {
			reservation.DiningRoomID = patch.DiningRoomID
		}

		reservation.ReservationCode = reservation.Code()
		return classify(tx.Save(reservation).Error)
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// DeleteReservation removes a draft or cancelled reservation together with
// its attendees, their orders and items, messages and seat assignment. The
// deletion order is explicit so side effects stay visible in code.
func (s *gormStore) DeleteReservation(ctx context.Context, actor Actor, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := reservationForAccess(tx, actor, id)
		if err != nil {
			return err
		}
		if !reservation.Status.Deletable() {
			return errf(KindLocked, "confirmed reservations cannot be deleted; cancel first")
		}
		return deleteReservationGraph(tx, id)
	})
}

// deleteReservationGraph deletes children bottom-up: items, orders,
// attendees, messages, seat assignment, then the reservation row.
func deleteReservationGraph(tx *gorm.DB, reservationID int64) error {
	var attendeeIDs []int64
	if err := tx.Model(&model.Attendee{}).
		Where("reservation_id = ?", reservationID).
		Pluck("id", &attendeeIDs).Error; err != nil {
		return classify(err)
	}

	if len(attendeeIDs) > 0 {
		var orderIDs []int64
		if err := tx.Model(&model.Order{}).
			Where("attendee_id IN ?", attendeeIDs).
			Pluck("id", &orderIDs).Error; err != nil {
			return classify(err)
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&model.OrderItem{}).Error; err != nil {
				return classify(err)
			}
			if err := tx.Delete(&model.Order{}, orderIDs).Error; err != nil {
				return classify(err)
			}
		}
		if err := tx.Delete(&model.Attendee{}, attendeeIDs).Error; err != nil {
			return classify(err)
		}
	}

	if err := tx.Where("reservation_id = ?", reservationID).Delete(&model.Message{}).Error; err != nil {
		return classify(err)
	}
	if err := tx.Where("reservation_id = ?", reservationID).Delete(&model.SeatAssignment{}).Error; err != nil {
		return classify(err)
	}
	return classify(tx.Delete(&model.Reservation{}, reservationID).Error)
}
