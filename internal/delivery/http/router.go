package http

import (
	"net/http"

	"healthvault/internal/delivery/http/handler"
	"healthvault/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	appointmentHandler   *handler.AppointmentHandler
	documentHandler      *handler.DocumentHandler
	prescriptionHandler  *handler.PrescriptionHandler
	pharmacyQueueHandler *handler.PharmacyQueueHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	documentHandler *handler.DocumentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	pharmacyQueueHandler *handler.PharmacyQueueHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		appointmentHandler:   appointmentHandler,
		documentHandler:      documentHandler,
		prescriptionHandler:  prescriptionHandler,
		pharmacyQueueHandler: pharmacyQueueHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/me", r.authHandler.UpdateProfile).Methods(http.MethodPut)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/doctors", r.appointmentHandler.ListDoctors).Methods(http.MethodGet)
	patient.HandleFunc("/documents", r.documentHandler.UploadDocument).Methods(http.MethodPost)
	patient.HandleFunc("/documents", r.documentHandler.GetMyDocuments).Methods(http.MethodGet)
	patient.HandleFunc("/documents/{id}", r.documentHandler.DeleteDocument).Methods(http.MethodDelete)
	patient.HandleFunc("/prescriptions", r.prescriptionHandler.GetMyPrescriptions).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/appointments", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)
	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.CreatePrescription).Methods(http.MethodPost)
	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.GetDoctorPrescriptions).Methods(http.MethodGet)
	doctor.HandleFunc("/patients", r.prescriptionHandler.SearchPatients).Methods(http.MethodGet)

	// Pharmacy routes (protected - pharmacy only)
	pharmacy := api.PathPrefix("/pharmacy").Subrouter()
	pharmacy.Use(r.authMiddleware.Authenticate)
	pharmacy.Use(middleware.RequirePharmacy)
	pharmacy.HandleFunc("/prescriptions", r.prescriptionHandler.LookupPending).Methods(http.MethodGet)
	pharmacy.HandleFunc("/queue", r.pharmacyQueueHandler.GetQueue).Methods(http.MethodGet)
	pharmacy.HandleFunc("/queue", r.pharmacyQueueHandler.ClaimPrescription).Methods(http.MethodPost)
	pharmacy.HandleFunc("/queue/{id}/status", r.pharmacyQueueHandler.UpdateQueueStatus).Methods(http.MethodPatch)
	pharmacy.HandleFunc("/queue/{id}/price", r.pharmacyQueueHandler.SetMedicationPrice).Methods(http.MethodPatch)
	pharmacy.HandleFunc("/queue/{id}", r.pharmacyQueueHandler.RemoveFromQueue).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
