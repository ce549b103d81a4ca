package http

import (
	"net/http"

	"medcenter-booking/internal/delivery/http/handler"
	"medcenter-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router             *mux.Router
	log                *logrus.Logger
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	paymentHandler     *handler.PaymentHandler
	catalogHandler     *handler.CatalogHandler
	contactHandler     *handler.ContactHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	rateLimiter        func(http.Handler) http.Handler
}

func NewRouter(
	log *logrus.Logger,
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	paymentHandler *handler.PaymentHandler,
	catalogHandler *handler.CatalogHandler,
	contactHandler *handler.ContactHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter func(http.Handler) http.Handler,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		log:                log,
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		paymentHandler:     paymentHandler,
		catalogHandler:     catalogHandler,
		contactHandler:     contactHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		rateLimiter:        rateLimiter,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even though no route matches OPTIONS.
func (r *Router) Setup() http.Handler {
	r.router.Use(middleware.RequestLogger(r.log))

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.rateLimiter)
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Catalog (public)
	api.HandleFunc("/departments", r.catalogHandler.GetDepartments).Methods(http.MethodGet)
	api.HandleFunc("/services/{type}", r.catalogHandler.GetServicesByType).Methods(http.MethodGet)
	api.HandleFunc("/home-services", r.catalogHandler.GetHomeServices).Methods(http.MethodGet)
	api.HandleFunc("/service-categories", r.catalogHandler.GetServiceCategories).Methods(http.MethodGet)
	api.HandleFunc("/service-categories/{category}", r.catalogHandler.GetServicesByCategory).Methods(http.MethodGet)

	// Booking form, signed in users get the appointment linked to their account
	booking := api.PathPrefix("/appointments").Subrouter()
	booking.Use(r.rateLimiter)
	booking.Use(r.authMiddleware.OptionalAuthenticate)
	booking.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)

	api.HandleFunc("/appointments/status-by-tx/{txRef}", r.appointmentHandler.GetPaymentStatus).Methods(http.MethodGet)

	mine := api.PathPrefix("/appointments").Subrouter()
	mine.Use(r.authMiddleware.Authenticate)
	mine.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)

	// Payment
	paymentRoutes := api.PathPrefix("/payment").Subrouter()
	paymentRoutes.Handle("/initiate", r.rateLimiter(http.HandlerFunc(r.paymentHandler.InitiatePayment))).Methods(http.MethodPost)
	paymentRoutes.HandleFunc("/webhook", r.paymentHandler.Webhook).Methods(http.MethodPost, http.MethodGet)

	// Contact and emails (public)
	public := api.NewRoute().Subrouter()
	public.Use(r.rateLimiter)
	public.HandleFunc("/contact", r.contactHandler.SubmitContact).Methods(http.MethodPost)
	public.HandleFunc("/send-email", r.contactHandler.SendEmail).Methods(http.MethodPost)
	public.HandleFunc("/send-booking-email", r.contactHandler.SendBookingEmail).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/contact", r.contactHandler.GetContactMessages).Methods(http.MethodGet)
	admin.HandleFunc("/service-categories", r.catalogHandler.CreateService).Methods(http.MethodPost)
	admin.HandleFunc("/service-categories/{id:[0-9]+}", r.catalogHandler.UpdateService).Methods(http.MethodPut)
	admin.HandleFunc("/audit-logs/{entityId}", r.auditLogHandler.GetEntityHistory).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
