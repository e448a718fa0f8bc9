package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// ListMessages returns a reservation's messages oldest first.
func (s *gormStore) ListMessages(ctx context.Context, actor Actor, reservationID int64) ([]model.Message, error) {
	if _, err := reservationForAccess(s.db.WithContext(ctx), actor, reservationID); err != nil {
		return nil, err
	}

	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, classify(err)
	}
	return messages, nil
}

// CreateMessage appends a message to a reservation. Messages are append-only;
// there is no update or delete.
func (s *gormStore) CreateMessage(ctx context.Context, actor Actor, reservationID int64, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errf(KindInvalidArgument, "message body is empty")
	}

	var message model.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := reservationForAccess(tx, actor, reservationID); err != nil {
			return err
		}
		message = model.Message{
			ReservationID: reservationID,
			SenderUserID:  actor.UserID,
			Body:          body,
		}
		return classify(tx.Create(&message).Error)
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}
