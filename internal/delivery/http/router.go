package http

import (
	"net/http"

	"lab-appointment-web/internal/delivery/http/handler"
	"lab-appointment-web/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Profile     *handler.ProfileHandler
	LabTest     *handler.LabTestHandler
	Appointment *handler.AppointmentHandler
	Booking     *handler.BookingHandler
	AdminUser   *handler.AdminUserHandler
	AuditLog    *handler.AuditLogHandler
	Event       *handler.EventHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	sessionMiddleware *middleware.SessionMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	log               *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	sessionMiddleware *middleware.SessionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		sessionMiddleware: sessionMiddleware,
		corsMiddleware:    corsMiddleware,
		log:               log,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	// CORS first so preflights skip session lookup
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.sessionMiddleware.Attach)
	r.router.Use(middleware.RequestLogger(r.log))

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Preflights only need a matching route for the CORS middleware to answer
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public routes
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.HandleFunc("/navigation", h.Auth.Navigation).Methods(http.MethodGet)
	api.HandleFunc("/tests", h.LabTest.GetMenu).Methods(http.MethodGet)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/session", h.Auth.Session).Methods(http.MethodGet)

	// Any account
	account := api.NewRoute().Subrouter()
	account.Use(middleware.RequireAccount)
	account.HandleFunc("/profile", h.Profile.GetProfile).Methods(http.MethodGet)
	account.HandleFunc("/profile", h.Profile.UpdateProfile).Methods(http.MethodPut)
	account.HandleFunc("/events", h.Event.Wait).Methods(http.MethodGet)

	// Patient routes
	patient := api.NewRoute().Subrouter()
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/dashboard", h.Appointment.GetDashboard).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", h.Appointment.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/booking", h.Booking.GetDraft).Methods(http.MethodGet)
	patient.HandleFunc("/booking", h.Booking.Discard).Methods(http.MethodDelete)
	patient.HandleFunc("/booking/patient", h.Booking.UpdatePatient).Methods(http.MethodPut)
	patient.HandleFunc("/booking/tests", h.Booking.UpdateTests).Methods(http.MethodPut)
	patient.HandleFunc("/booking/visit", h.Booking.UpdateVisit).Methods(http.MethodPut)
	patient.HandleFunc("/booking/back", h.Booking.Back).Methods(http.MethodPost)
	patient.HandleFunc("/booking/submit", h.Booking.Submit).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/dashboard", h.Appointment.GetAdminDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/appointments", h.Appointment.GetAdminAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id:[0-9]+}/actions", h.Appointment.GetActions).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id:[0-9]+}/status", h.Appointment.UpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/users", h.AdminUser.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{username}", h.AdminUser.FindUser).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAuditLogs).Methods(http.MethodGet)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
