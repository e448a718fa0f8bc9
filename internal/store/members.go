package store

import (
	"context"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// MemberInput creates a member profile under the acting user.
type MemberInput struct {
	Name                string
	Relation            string
	DietaryRestrictions datatypes.JSON
}

// MemberPatch applies a partial update to a member profile.
type MemberPatch struct {
	Name                *string
	Relation            *string
	DietaryRestrictions datatypes.JSON
}

func (s *gormStore) CreateMember(ctx context.Context, actor Actor, in MemberInput) (*model.Member, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errf(KindInvalidArgument, "member name is required")
	}
	member := model.Member{
		UserID:              actor.UserID,
		Name:                in.Name,
		Relation:            in.Relation,
		DietaryRestrictions: in.DietaryRestrictions,
	}
	if member.Relation == "" {
		member.Relation = "Primary"
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, classify(err)
	}
	return &member, nil
}

func (s *gormStore) ListMembers(ctx context.Context, actor Actor) ([]model.Member, error) {
	var members []model.Member
	err := s.db.WithContext(ctx).
		Where("user_id = ?", actor.UserID).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, classify(err)
	}
	return members, nil
}

func (s *gormStore) UpdateMember(ctx context.Context, actor Actor, id int64, patch MemberPatch) (*model.Member, error) {
	var member model.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "member %d not found", id)
			}
			return classify(err)
		}
		if !canActFor(actor, member.UserID) {
			return errf(KindForbidden, "not allowed")
		}

		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return errf(KindInvalidArgument, "member name cannot be blank")
			}
			member.Name = *patch.Name
		}
		if patch.Relation != nil {
			member.Relation = *patch.Relation
		}
		if patch.DietaryRestrictions != nil {
			member.DietaryRestrictions = patch.DietaryRestrictions
		}
		return classify(tx.Save(&member).Error)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember removes a profile. Attendees that pointed at the member are
// re-homed as named guests so reservation history keeps a readable identity.
func (s *gormStore) DeleteMember(ctx context.Context, actor Actor, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.Member
		if err := tx.First(&member, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errf(KindNotFound, "member %d not found", id)
			}
			return classify(err)
		}
		if !canActFor(actor, member.UserID) {
			return errf(KindForbidden, "not allowed")
		}

		err := tx.Model(&model.Attendee{}).
			Where("member_id = ?", member.ID).
			Updates(map[string]any{"member_id": nil, "guest_name": member.Name}).Error
		if err != nil {
			return classify(err)
		}
		return classify(tx.Delete(&model.Member{}, member.ID).Error)
	})
}
