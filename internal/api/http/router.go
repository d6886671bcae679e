package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalhub-backend/internal/security"
	"rentalhub-backend/internal/service"
	"rentalhub-backend/internal/storage"
)

// Dependencies are the services the HTTP transport exposes.
type Dependencies struct {
	Rentals        service.RentalService
	Dashboard      service.DashboardService
	Notifications  service.NotificationService
	TokenManager   security.TokenManager
	Files          storage.FileStorage // Served under /files/ when non-nil (local storage)
	MaxUploadBytes int64
}

// NewRouter registers every route. Route names select the security level applied by
// AuthMiddleware.
func NewRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.Use(Recoverer, RequestLogger, NewAuthMiddleware(deps.TokenManager).Handler)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "")
	}).Methods(http.MethodGet).Name("health")

	if deps.Files != nil {
		files := NewFileHandler(deps.Files)
		router.HandleFunc("/files/{key:.+}", files.Download).Methods(http.MethodGet).Name("files")
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	rentals := NewRentalHandler(deps.Rentals, deps.Dashboard, deps.MaxUploadBytes)
	api.HandleFunc("/rentals", rentals.CreateRental).Methods(http.MethodPost).Name("rentals.create")
	api.HandleFunc("/rentals", rentals.ListRentals).Methods(http.MethodGet).Name("rentals.list")
	api.HandleFunc("/rentals/{rental_id_or_uid}", rentals.GetRental).Methods(http.MethodGet).Name("rentals.get")
	api.HandleFunc("/rentals/{rental_id_or_uid}/payment-status", rentals.GetPaymentStatus).Methods(http.MethodGet).Name("rentals.payment_status")
	api.HandleFunc("/rentals/{rental_id_or_uid}/history", rentals.GetStatusHistory).Methods(http.MethodGet).Name("rentals.history")
	api.HandleFunc("/rentals/{rental_id_or_uid}/approve", rentals.ApproveRental).Methods(http.MethodPost).Name("rentals.approve")
	api.HandleFunc("/rentals/{rental_id_or_uid}/reject", rentals.RejectRental).Methods(http.MethodPost).Name("rentals.reject")
	api.HandleFunc("/rentals/{rental_id_or_uid}/payment-proof", rentals.SubmitPaymentProof).Methods(http.MethodPost).Name("rentals.payment_proof")
	api.HandleFunc("/rentals/{rental_id_or_uid}/verify-payment", rentals.VerifyPayment).Methods(http.MethodPost).Name("rentals.verify_payment")
	api.HandleFunc("/rentals/{rental_id_or_uid}/cancel", rentals.CancelRental).Methods(http.MethodPost).Name("rentals.cancel")
	api.HandleFunc("/rentals/{rental_id_or_uid}/return", rentals.ProcessReturn).Methods(http.MethodPost).Name("rentals.return")

	api.HandleFunc("/renter/me/dashboard", rentals.GetRenterDashboard).Methods(http.MethodGet).Name("renter.dashboard")
	api.HandleFunc("/renter/me/rentals", rentals.ListMyRentals).Methods(http.MethodGet).Name("renter.rentals")

	notifications := NewNotificationHandler(deps.Notifications)
	api.HandleFunc("/notifications", notifications.ListNotifications).Methods(http.MethodGet).Name("notifications.list")
	api.HandleFunc("/notifications/{id}/read", notifications.MarkAsRead).Methods(http.MethodPost).Name("notifications.read")

	return router
}
