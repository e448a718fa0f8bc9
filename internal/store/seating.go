package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// DefaultDiningMinutes is the window length assumed when a reservation has no
// explicit end time. The historical backfill used the same value, so it must
// stay stable.
const DefaultDiningMinutes = 90

// SeatAssignmentInput creates an assignment for a reservation.
type SeatAssignmentInput struct {
	ReservationID int64
	TableID       int64
	Notes         string
}

// SeatAssignmentPatch updates an existing assignment. A table change
// recomputes and revalidates the time window.
type SeatAssignmentPatch struct {
	TableID *int64
	Notes   *string
}

// ReservationWindow derives the half-open [start, end) seating window from a
// reservation's date and times. Half-open semantics make back-to-back
// bookings (18:00-19:00, then 19:00-20:00) non-overlapping.
func ReservationWindow(r *model.Reservation) (time.Time, time.Time, error) {
	start, err := combineDateTime(r.Date, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, errf(KindInvalidArgument, "bad start time %q", r.StartTime)
	}

	var end time.Time
	if r.EndTime != nil && *r.EndTime != "" {
		end, err = combineDateTime(r.Date, *r.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, errf(KindInvalidArgument, "bad end time %q", *r.EndTime)
		}
	} else {
		end = start.Add(DefaultDiningMinutes * time.Minute)
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, errf(KindInvalidWindow, "reservation end time must be after start time")
	}
	return start, end, nil
}

func combineDateTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// checkTableFree rejects the window if any other assignment for the table
// intersects it. This pre-check gives a precise error; the exclusion
// constraint remains authoritative for races between concurrent commits.
func checkTableFree(tx *gorm.DB, tableID, excludeID int64, start, end time.Time) error {
	var count int64
	err := tx.Model(&model.SeatAssignment{}).
		Where("table_id = ? AND id <> ? AND start_at < ? AND end_at > ?", tableID, excludeID, end, start).
		Count(&count).Error
	if err != nil {
		return classify(err)
	}
	if count > 0 {
		return errf(KindOverlapConflict, "this table is already assigned during that time window")
	}
	return nil
}

// CreateSeatAssignment binds a reservation to a table for its derived window.
// One assignment per reservation; callers must update, not re-create.
func (s *gormStore) CreateSeatAssignment(ctx context.Context, actor Actor, in SeatAssignmentInput) (*model.SeatAssignment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var assignment model.SeatAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.SeatAssignment{}).
			Where("reservation_id = ?", in.ReservationID).
			Count(&existing).Error; err != nil {
			return classify(err)
		}
		if existing > 0 {
			return errf(KindConflict, "reservation already has a table assigned; update it instead")
		}

		var reservation model.Reservation
		if err := tx.First(&reservation, in.ReservationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "reservation %d not found", in.ReservationID)
			}
			return classify(err)
		}

		var table model.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "table %d not found", in.TableID)
			}
			return classify(err)
		}

		start, end, err := ReservationWindow(&reservation)
		if err != nil {
			return err
		}
		if err := checkTableFree(tx, in.TableID, 0, start, end); err != nil {
			return err
		}

		staffID := actor.UserID
		assignment = model.SeatAssignment{
			ReservationID:    in.ReservationID,
			TableID:          in.TableID,
			AssignedByUserID: &staffID,
			AssignedAt:       time.Now().UTC(),
			Notes:            in.Notes,
			StartAt:          start,
			EndAt:            end,
		}
		return classify(tx.Create(&assignment).Error)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateSeatAssignment moves an assignment to another table and/or edits its
// notes. The window is recomputed from the unchanged reservation so it can
// never drift from its source.
func (s *gormStore) UpdateSeatAssignment(ctx context.Context, actor Actor, id int64, patch SeatAssignmentPatch) (*model.SeatAssignment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var assignment model.SeatAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&assignment, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "seat assignment %d not found", id)
			}
			return classify(err)
		}

		if patch.TableID != nil && *patch.TableID != assignment.TableID {
			var table model.Table
			if err := tx.First(&table, *patch.TableID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return errf(KindNotFound, "table %d not found", *patch.TableID)
				}
				return classify(err)
			}

			var reservation model.Reservation
			if err := tx.First(&reservation, assignment.ReservationID).Error; err != nil {
				return classify(err)
			}
			start, end, err := ReservationWindow(&reservation)
			if err != nil {
				return err
			}
			if err := checkTableFree(tx, *patch.TableID, assignment.ID, start, end); err != nil {
				return err
			}

			assignment.TableID = *patch.TableID
			assignment.StartAt = start
			assignment.EndAt = end
		}
		if patch.Notes != nil {
			assignment.Notes = *patch.Notes
		}

		staffID := actor.UserID
		assignment.AssignedByUserID = &staffID
		assignment.AssignedAt = time.Now().UTC()

		return classify(tx.Save(&assignment).Error)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// DeleteSeatAssignment removes an assignment unconditionally.
func (s *gormStore) DeleteSeatAssignment(ctx context.Context, actor Actor, id int64) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.SeatAssignment{}, id)
		if res.Error != nil {
			return classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return errf(KindNotFound, "seat assignment %d not found", id)
		}
		return nil
	})
}

// GetSeatAssignment returns the assignment for a reservation, if any.
func (s *gormStore) GetSeatAssignment(ctx context.Context, actor Actor, reservationID int64) (*model.SeatAssignment, error) {
	if _, err := reservationForAccess(s.db.WithContext(ctx), actor, reservationID); err != nil {
		return nil, err
	}

	var assignment model.SeatAssignment
	err := s.db.WithContext(ctx).
		Preload("Table").
		Where("reservation_id = ?", reservationID).
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errf(KindNotFound, "no seat assignment for reservation %d", reservationID)
		}
		return nil, classify(err)
	}
	return &assignment, nil
}
