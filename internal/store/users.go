package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// CreateUser registers a login identity. Emails are stored lower-cased.
func (s *gormStore) CreateUser(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errf(KindInvalidArgument, "email is required")
	}

	user := model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errf(KindNotFound, "no user with that email")
		}
		return nil, classify(err)
	}
	return &user, nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errf(KindNotFound, "user %d not found", id)
		}
		return nil, classify(err)
	}
	return &user, nil
}

// RevokeToken denylists a token id until its natural expiry.
func (s *gormStore) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	token := model.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now().UTC(),
	}
	return classify(s.db.WithContext(ctx).Save(&token).Error)
}

// IsTokenRevoked reports whether a token id is on the denylist. Expired rows
// count as revoked too; the token is unusable either way.
func (s *gormStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

// RetireMenuItem deactivates a menu item that order history references, and
// deletes it outright when nothing does. Referenced rows must survive so
// order item snapshots keep a resolvable origin.
func (s *gormStore) RetireMenuItem(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menuItem model.MenuItem
		if err := tx.First(&menuItem, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "menu item %d not found", id)
			}
			return classify(err)
		}

		var refs int64
		if err := tx.Model(&model.OrderItem{}).
			Where("menu_item_id = ?", id).
			Count(&refs).Error; err != nil {
			return classify(err)
		}
		if refs > 0 {
			return classify(tx.Model(&menuItem).Update("is_active", false).Error)
		}
		return classify(tx.Delete(&model.MenuItem{}, id).Error)
	})
}
