package store

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// AttendeeInput adds a person to a reservation. At least one of MemberID and
// a non-blank GuestName is required.
type AttendeeInput struct {
	ReservationID       int64
	MemberID            *int64
	GuestName           *string
	DietaryRestrictions datatypes.JSON
	Meta                datatypes.JSON
	SelectionConfirmed  bool
}

// AttendeePatch applies a partial update to an attendee.
type AttendeePatch struct {
	MemberID            *int64
	GuestName           *string
	DietaryRestrictions datatypes.JSON
	Meta                datatypes.JSON
	SelectionConfirmed  *bool
}

// CreateAttendee attaches an attendee to a reservation the actor may edit.
// The member-or-guest rule is checked up front; the database check constraint
// backs it at commit time.
func (s *gormStore) CreateAttendee(ctx context.Context, actor Actor, in AttendeeInput) (*model.Attendee, error) {
	attendee := model.Attendee{
		ReservationID:       in.ReservationID,
		MemberID:            in.MemberID,
		GuestName:           in.GuestName,
		DietaryRestrictions: in.DietaryRestrictions,
		Meta:                in.Meta,
		SelectionConfirmed:  in.SelectionConfirmed,
	}
	if !attendee.Identified() {
		return nil, errf(KindStructuralViolation, "attendee needs a member or a non-blank guest name")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := reservationForAccess(tx, actor, in.ReservationID); err != nil {
			return err
		}
		return classify(tx.Create(&attendee).Error)
	})
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

// ListAttendees returns a reservation's attendees in insertion order.
func (s *gormStore) ListAttendees(ctx context.Context, actor Actor, reservationID int64) ([]model.Attendee, error) {
	if _, err := reservationForAccess(s.db.WithContext(ctx), actor, reservationID); err != nil {
		return nil, err
	}

	var attendees []model.Attendee
	err := s.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&attendees).Error
	if err != nil {
		return nil, classify(err)
	}
	return attendees, nil
}

// UpdateAttendee applies a partial update, re-checking the member-or-guest
// rule against the patched row.
func (s *gormStore) UpdateAttendee(ctx context.Context, actor Actor, id int64, patch AttendeePatch) (*model.Attendee, error) {
	var attendee *model.Attendee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		attendee, err = attendeeForAccess(tx, actor, id)
		if err != nil {
			return err
		}

		if patch.MemberID != nil {
			attendee.MemberID = patch.MemberID
		}
		if patch.GuestName != nil {
			attendee.GuestName = patch.GuestName
		}
		if patch.DietaryRestrictions != nil {
			attendee.DietaryRestrictions = patch.DietaryRestrictions
		}
		if patch.Meta != nil {
			attendee.Meta = patch.Meta
		}
		if patch.SelectionConfirmed != nil {
			attendee.SelectionConfirmed = *patch.SelectionConfirmed
		}

		if !attendee.Identified() {
			return errf(KindStructuralViolation, "attendee needs a member or a non-blank guest name")
		}
		return classify(tx.Save(attendee).Error)
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

// DeleteAttendee removes an attendee along with their order and its items.
func (s *gormStore) DeleteAttendee(ctx context.Context, actor Actor, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attendee, err := attendeeForAccess(tx, actor, id)
		if err != nil {
			return err
		}

		var orderIDs []int64
		if err := tx.Model(&model.Order{}).
			Where("attendee_id = ?", attendee.ID).
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
		return classify(tx.Delete(&model.Attendee{}, attendee.ID).Error)
	})
}
