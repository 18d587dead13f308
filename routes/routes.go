// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-logistics/controllers"
	"go-logistics/logger"
	"go-logistics/middleware"
	"go-logistics/models"
)

// Controllers groups every handler set the router serves
type Controllers struct {
	Users           *controllers.UserController
	Fleet           *controllers.FleetController
	Orders          *controllers.OrderController
	DeliverySession *controllers.DeliverySessionController
	Admin           *controllers.AdminController
	Live            http.HandlerFunc // websocket notification feed
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	router.Use(logger.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/login", c.Users.Login).Methods("POST")

	// Authenticated routes
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.Users.GetProfile).Methods("GET")

	riderOrAdmin := middleware.RoleMiddleware(models.RoleRider, models.RoleAdmin)

	// Delivery session routes
	sessions := api.PathPrefix("/delivery-session").Subrouter()
	sessions.Use(middleware.AuthMiddleware)

	adminSessions := sessions.PathPrefix("/").Subrouter()
	adminSessions.Use(middleware.AdminMiddleware)
	adminSessions.HandleFunc("/new", c.DeliverySession.CreateSession).Methods("POST")
	adminSessions.HandleFunc("/by-status", c.DeliverySession.GetByStatus).Methods("GET")
	adminSessions.HandleFunc("/{id}/cancel-order/{orderId}", c.DeliverySession.CancelOrder).Methods("PUT")
	adminSessions.HandleFunc("/{id}", c.DeliverySession.UpdateSession).Methods("PUT")
	adminSessions.HandleFunc("/{id}", c.DeliverySession.DeleteSession).Methods("DELETE")

	riderSessions := sessions.PathPrefix("/").Subrouter()
	riderSessions.Use(riderOrAdmin)
	riderSessions.HandleFunc("/{id}/started-work", c.DeliverySession.StartedWork).Methods("PUT")
	riderSessions.HandleFunc("/{id}/completed-work", c.DeliverySession.CompletedWork).Methods("PUT")
	riderSessions.HandleFunc("/{id}/proof", c.DeliverySession.SubmitProof).Methods("PUT")
	riderSessions.HandleFunc("/on-going/{riderId}", c.DeliverySession.GetOnGoing).Methods("GET")
	riderSessions.HandleFunc("/history/{riderId}", c.DeliverySession.GetHistory).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)

	admin.HandleFunc("/users", c.Users.CreateUser).Methods("POST")

	admin.HandleFunc("/riders", c.Fleet.GetRiders).Methods("GET")
	admin.HandleFunc("/riders", c.Fleet.CreateRider).Methods("POST")
	admin.HandleFunc("/riders/{id}", c.Fleet.GetRiderByID).Methods("GET")
	admin.HandleFunc("/riders/{id}", c.Fleet.UpdateRider).Methods("PUT")
	admin.HandleFunc("/riders/{id}", c.Fleet.DeleteRider).Methods("DELETE")

	admin.HandleFunc("/trucks", c.Fleet.GetTrucks).Methods("GET")
	admin.HandleFunc("/trucks", c.Fleet.CreateTruck).Methods("POST")
	admin.HandleFunc("/trucks/{id}", c.Fleet.GetTruckByID).Methods("GET")
	admin.HandleFunc("/trucks/{id}", c.Fleet.UpdateTruck).Methods("PUT")
	admin.HandleFunc("/trucks/{id}", c.Fleet.DeleteTruck).Methods("DELETE")

	admin.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", c.Orders.GetOrderByID).Methods("GET")

	admin.HandleFunc("/notifications", c.Admin.GetNotifications).Methods("GET")
	admin.HandleFunc("/sweep/run", c.Admin.RunSweep).Methods("POST")

	if c.Live != nil {
		live := middleware.WSAuthMiddleware(middleware.AdminMiddleware(c.Live))
		api.Handle("/notifications/ws", live).Methods("GET")
	}
}
