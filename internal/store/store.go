package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// Actor is the authenticated identity performing an operation. The API layer
// authenticates and parses; the store decides what the actor may do.
type Actor struct {
	UserID int64
	Role   model.Role
}

// Store defines the business operations backed by the database. Every
// mutating method runs in a single transaction and returns either the
// affected entity or a classified *Error.
type Store interface {
	DB() *gorm.DB

	// Users and token revocation.
	CreateUser(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// Member profiles, scoped to their owning user.
	CreateMember(ctx context.Context, actor Actor, in MemberInput) (*model.Member, error)
	ListMembers(ctx context.Context, actor Actor) ([]model.Member, error)
	UpdateMember(ctx context.Context, actor Actor, id int64, patch MemberPatch) (*model.Member, error)
	DeleteMember(ctx context.Context, actor Actor, id int64) error

	// Reservation lifecycle.
	CreateReservation(ctx context.Context, actor Actor, in ReservationInput) (*model.Reservation, error)
	ListReservations(ctx context.Context, actor Actor, f ReservationFilter) ([]model.Reservation, error)
	GetReservation(ctx context.Context, actor Actor, id int64) (*model.Reservation, error)
	UpdateReservation(ctx context.Context, actor Actor, id int64, patch ReservationPatch) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, actor Actor, id int64) error

	// Attendees.
	CreateAttendee(ctx context.Context, actor Actor, in AttendeeInput) (*model.Attendee, error)
	ListAttendees(ctx context.Context, actor Actor, reservationID int64) ([]model.Attendee, error)
	UpdateAttendee(ctx context.Context, actor Actor, id int64, patch AttendeePatch) (*model.Attendee, error)
	DeleteAttendee(ctx context.Context, actor Actor, id int64) error

	// Order lifecycle.
	EnsureOrder(ctx context.Context, actor Actor, attendeeID int64) (*model.Order, error)
	UpdateOrder(ctx context.Context, actor Actor, orderID int64, patch OrderPatch) (*model.Order, error)
	FireOrder(ctx context.Context, actor Actor, orderID int64) (*model.Order, error)
	FulfillOrder(ctx context.Context, actor Actor, orderID int64) (*model.Order, error)
	OrderChit(ctx context.Context, actor Actor, orderID int64) (*Chit, error)

	// Order items.
	AddOrderItem(ctx context.Context, actor Actor, orderID int64, in OrderItemInput) (*model.OrderItem, error)
	ListOrderItems(ctx context.Context, actor Actor, orderID int64) ([]model.OrderItem, error)
	UpdateOrderItem(ctx context.Context, actor Actor, itemID int64, patch OrderItemPatch) (*model.OrderItem, error)

	// Seat assignments.
	CreateSeatAssignment(ctx context.Context, actor Actor, in SeatAssignmentInput) (*model.SeatAssignment, error)
	UpdateSeatAssignment(ctx context.Context, actor Actor, id int64, patch SeatAssignmentPatch) (*model.SeatAssignment, error)
	DeleteSeatAssignment(ctx context.Context, actor Actor, id int64) error
	GetSeatAssignment(ctx context.Context, actor Actor, reservationID int64) (*model.SeatAssignment, error)

	// Bootstrap aggregate.
	Bootstrap(ctx context.Context, actor Actor, reservationID int64) (*BootstrapResult, error)

	// Messages.
	ListMessages(ctx context.Context, actor Actor, reservationID int64) ([]model.Message, error)
	CreateMessage(ctx context.Context, actor Actor, reservationID int64, body string) (*model.Message, error)

	// Menu catalog rule: referenced items are deactivated, never deleted.
	RetireMenuItem(ctx context.Context, id int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for plain persistence glue (catalog
// handlers, notification worker) that carries no business rules.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// requireStaff gates staff/admin-only operations.
func requireStaff(actor Actor) error {
	if !actor.Role.IsStaff() {
		return errf(KindForbidden, "staff only")
	}
	return nil
}

// canActFor reports whether the actor owns the resource or holds staff rights.
func canActFor(actor Actor, ownerUserID int64) bool {
	return actor.UserID == ownerUserID || actor.Role.IsStaff()
}

// reservationForAccess loads a reservation and checks the actor against its
// owner. Ownership is resolved by ids, never by walking loaded object graphs.
func reservationForAccess(tx *gorm.DB, actor Actor, reservationID int64) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := tx.First(&reservation, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errf(KindNotFound, "reservation %d not found", reservationID)
		}
		return nil, classify(err)
	}
	if !canActFor(actor, reservation.UserID) {
		return nil, errf(KindForbidden, "not allowed")
	}
	return &reservation, nil
}

// attendeeForAccess loads an attendee and checks the actor against the owner
// of the attendee's reservation.
func attendeeForAccess(tx *gorm.DB, actor Actor, attendeeID int64) (*model.Attendee, error) {
	var attendee model.Attendee
	if err := tx.First(&attendee, attendeeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errf(KindNotFound, "attendee %d not found", attendeeID)
		}
		return nil, classify(err)
	}

	var ownerID int64
	err := tx.Model(&model.Reservation{}).
		Select("user_id").
		Where("id = ?", attendee.ReservationID).
		Scan(&ownerID).Error
	if err != nil {
		return nil, classify(err)
	}
	if !canActFor(actor, ownerID) {
		return nil, errf(KindForbidden, "not allowed")
	}
	return &attendee, nil
}

// orderForAccess loads an order and checks access through its attendee's
// reservation owner.
func orderForAccess(tx *gorm.DB, actor Actor, orderID int64) (*model.Order, error) {
	var order model.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errf(KindNotFound, "order %d not found", orderID)
		}
		return nil, classify(err)
	}
	if _, err := attendeeForAccess(tx, actor, order.AttendeeID); err != nil {
		return nil, err
	}
	return &order, nil
}
