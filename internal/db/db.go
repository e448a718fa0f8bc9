package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lodge-dining-backend/config"
	"lodge-dining-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Applying integrity constraints...")
	if err := applyConstraintDDL(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate runs AutoMigrate in parent-before-child order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Member{},
		&model.DiningRoom{},
		&model.Table{},
		&model.MenuItem{},
		&model.Reservation{},
		&model.Attendee{},
		&model.Order{},
		&model.OrderItem{},
		&model.SeatAssignment{},
		&model.Message{},
		&model.PushSubscription{},
		&model.RevokedToken{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// applyConstraintDDL adds the constraints gorm cannot express. The exclusion
// constraint is the authoritative guard against double-booking a table:
// for one table_id, no two [start_at, end_at) ranges may intersect. '[)'
// keeps back-to-back windows legal. DROP-then-ADD keeps the DDL re-runnable.
func applyConstraintDDL(db *gorm.DB) error {
	ddls := []string{
		// GiST cannot compare btree types like BIGINT without this extension.
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		"ALTER TABLE seat_assignments DROP CONSTRAINT IF EXISTS ck_seat_assignments_end_after_start;",
		"ALTER TABLE seat_assignments " +
			"ADD CONSTRAINT ck_seat_assignments_end_after_start CHECK (end_at > start_at);",

		"ALTER TABLE seat_assignments DROP CONSTRAINT IF EXISTS excl_seat_assignments_table_overlap;",
		"ALTER TABLE seat_assignments " +
			"ADD CONSTRAINT excl_seat_assignments_table_overlap " +
			"EXCLUDE USING gist (table_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&);",

		"ALTER TABLE attendees DROP CONSTRAINT IF EXISTS ck_attendees_member_or_guest;",
		"ALTER TABLE attendees " +
			"ADD CONSTRAINT ck_attendees_member_or_guest " +
			"CHECK ((member_id IS NOT NULL) OR (guest_name IS NOT NULL AND length(btrim(guest_name)) > 0));",

		"ALTER TABLE order_items DROP CONSTRAINT IF EXISTS ck_order_items_quantity_positive;",
		"ALTER TABLE order_items " +
			"ADD CONSTRAINT ck_order_items_quantity_positive CHECK (quantity >= 1);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
