package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"lodge-dining-backend/config"
	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/notification"
	"lodge-dining-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	accessTTL := time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute
	handler := NewHandler(s, webpushOptions, pool, cfg.Auth.JWTSecret, accessTTL)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authn := mw.Auth(cfg.Auth.JWTSecret, s)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)

		// Catalog reads are public and cached.
		api.GET("/dining_rooms", caching, GetDiningRooms(db))
		api.GET("/dining_rooms/:room_id/tables", caching, GetTables(db))
		api.GET("/menu_items", caching, GetMenuItems(db))
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	authed := api.Group("")
	authed.Use(authn)
	{
		authed.POST("/auth/logout", handler.Logout)

		authed.POST("/members", handler.CreateMember)
		authed.GET("/members", handler.ListMembers)
		authed.PATCH("/members/:id", handler.UpdateMember)
		authed.DELETE("/members/:id", handler.DeleteMember)

		authed.POST("/reservations", handler.CreateReservation)
		authed.GET("/reservations", handler.ListReservations)
		authed.GET("/reservations/:id", handler.GetReservation)
		authed.PATCH("/reservations/:id", handler.UpdateReservation)
		authed.DELETE("/reservations/:id", handler.DeleteReservation)
		authed.GET("/reservations/:id/bootstrap", handler.Bootstrap)
		authed.GET("/reservations/:id/seating", handler.GetSeatAssignment)

		authed.POST("/reservations/:id/attendees", handler.CreateAttendee)
		authed.GET("/reservations/:id/attendees", handler.ListAttendees)
		authed.PATCH("/attendees/:id", handler.UpdateAttendee)
		authed.DELETE("/attendees/:id", handler.DeleteAttendee)
		authed.POST("/attendees/:id/order", handler.EnsureOrder)

		authed.PATCH("/orders/:id", handler.UpdateOrder)
		authed.POST("/orders/:id/fire", handler.FireOrder)
		authed.GET("/orders/:id/chit", handler.OrderChit)
		authed.POST("/orders/:id/items", handler.AddOrderItem)
		authed.GET("/orders/:id/items", handler.ListOrderItems)
		authed.PATCH("/order_items/:id", handler.UpdateOrderItem)

		authed.GET("/reservations/:id/messages", handler.ListMessages)
		authed.POST("/reservations/:id/messages", handler.CreateMessage)
	}

	staff := authed.Group("")
	staff.Use(mw.RequireStaff())
	{
		staff.POST("/orders/:id/fulfill", handler.FulfillOrder)

		staff.POST("/seat_assignments", handler.CreateSeatAssignment)
		staff.PATCH("/seat_assignments/:id", handler.UpdateSeatAssignment)
		staff.DELETE("/seat_assignments/:id", handler.DeleteSeatAssignment)

		// Catalog writes flush the read cache on success.
		staff.POST("/dining_rooms", caching, CreateDiningRoom(db))
		staff.POST("/dining_rooms/:room_id/tables", caching, CreateTable(db))
		staff.PATCH("/tables/:id", caching, UpdateTable(db))
		staff.POST("/menu_items", caching, CreateMenuItem(db))
		staff.PATCH("/menu_items/:id", caching, UpdateMenuItem(db))
		staff.DELETE("/menu_items/:id", caching, handler.RetireMenuItem)

		staff.GET("/subscriptions", handler.GetSubscription)
		staff.PUT("/subscriptions", handler.PutSubscription)
		staff.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
