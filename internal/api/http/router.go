package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the REST surface. Login is public; everything else
// requires a bearer token. Role checks live in the services, not here.
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	customerHandler *CustomerHandler,
	reservationHandler *ReservationHandler,
	rentalHandler *RentalHandler,
	commissionHandler *CommissionHandler,
	reportHandler *ReportHandler,
	expenseHandler *ExpenseHandler,
	notificationHandler *NotificationHandler,
	authMiddleware *AuthMiddleware,
	db *sql.DB,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/users", authHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users", authHandler.CreateUser).Methods("POST")
	api.HandleFunc("/users/{id}", authHandler.GetUser).Methods("GET")

	api.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	api.HandleFunc("/vehicles", vehicleHandler.Create).Methods("POST")
	api.HandleFunc("/vehicles/{id}", vehicleHandler.Get).Methods("GET")
	api.HandleFunc("/vehicles/{id}", vehicleHandler.Update).Methods("PUT")
	api.HandleFunc("/vehicles/{id}", vehicleHandler.Deactivate).Methods("DELETE")
	api.HandleFunc("/vehicles/{id}/maintenance", vehicleHandler.MarkMaintenance).Methods("POST")
	api.HandleFunc("/vehicles/{id}/return-to-service", vehicleHandler.ReturnToService).Methods("POST")
	api.HandleFunc("/vehicles/{id}/status-history", vehicleHandler.StatusHistory).Methods("GET")

	api.HandleFunc("/customers", customerHandler.Search).Methods("GET")
	api.HandleFunc("/customers", customerHandler.Create).Methods("POST")
	api.HandleFunc("/customers/{id}", customerHandler.Get).Methods("GET")
	api.HandleFunc("/customers/{id}", customerHandler.Update).Methods("PUT")
	api.HandleFunc("/customers/{id}/blacklist", customerHandler.Blacklist).Methods("POST")
	api.HandleFunc("/customers/{id}/blacklist", customerHandler.Unblacklist).Methods("DELETE")

	api.HandleFunc("/reservations", reservationHandler.List).Methods("GET")
	api.HandleFunc("/reservations", reservationHandler.Create).Methods("POST")
	api.HandleFunc("/reservations/{id}", reservationHandler.Get).Methods("GET")
	api.HandleFunc("/reservations/{id}/confirm", reservationHandler.Confirm).Methods("POST")
	api.HandleFunc("/reservations/{id}/cancel", reservationHandler.Cancel).Methods("POST")
	api.HandleFunc("/reservations/{id}/no-show", reservationHandler.MarkNoShow).Methods("POST")
	api.HandleFunc("/reservations/{id}/payment-status", reservationHandler.UpdatePaymentStatus).Methods("PUT")
	api.HandleFunc("/reservations/{id}/convert", reservationHandler.Convert).Methods("POST")

	api.HandleFunc("/rentals", rentalHandler.List).Methods("GET")
	api.HandleFunc("/rentals", rentalHandler.Create).Methods("POST")
	api.HandleFunc("/rentals/{id}", rentalHandler.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}/sign", rentalHandler.Sign).Methods("POST")
	api.HandleFunc("/rentals/{id}/charges", rentalHandler.UpdateCharges).Methods("PUT")
	api.HandleFunc("/rentals/{id}/complete", rentalHandler.Complete).Methods("POST")
	api.HandleFunc("/rentals/{id}/cancel", rentalHandler.Cancel).Methods("POST")
	api.HandleFunc("/rentals/{id}/return-deposit", rentalHandler.ReturnDeposit).Methods("POST")
	api.HandleFunc("/rentals/{id}/snapshot", rentalHandler.Snapshot).Methods("GET")

	api.HandleFunc("/commissions", commissionHandler.List).Methods("GET")
	api.HandleFunc("/commissions/summary", commissionHandler.Summary).Methods("GET")
	api.HandleFunc("/commissions/approve", commissionHandler.ApproveBatch).Methods("POST")
	api.HandleFunc("/commissions/pay", commissionHandler.PayBatch).Methods("POST")
	api.HandleFunc("/commissions/{id}", commissionHandler.Get).Methods("GET")
	api.HandleFunc("/commissions/{id}/revert-payment", commissionHandler.RevertPayment).Methods("POST")

	api.HandleFunc("/reports/fleet", reportHandler.FleetProfitability).Methods("GET")
	api.HandleFunc("/reports/vehicles/{id}", reportHandler.VehicleProfitability).Methods("GET")

	api.HandleFunc("/expenses", expenseHandler.List).Methods("GET")
	api.HandleFunc("/expenses", expenseHandler.Create).Methods("POST")
	api.HandleFunc("/expenses/{id}", expenseHandler.Get).Methods("GET")

	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("POST")

	return r
}
