package http

import (
	"net/http"

	"medcare-api/internal/delivery/http/handler"
	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/service"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Reference     *handler.ReferenceHandler
	Doctor        *handler.DoctorHandler
	TimeSlot      *handler.TimeSlotHandler
	Appointment   *handler.AppointmentHandler
	Patient       *handler.PatientHandler
	MedicalRecord *handler.MedicalRecordHandler
	Insurance     *handler.InsuranceHandler
	Chat          *handler.ChatHandler
	Notification  *handler.NotificationHandler
	Chatbot       *handler.ChatbotHandler
	AuditLog      *handler.AuditLogHandler
	Socket        *handler.SocketHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	policy            *service.AccessPolicy
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	authRateLimit     int
}

func NewRouter(
	handlers Handlers,
	policy *service.AccessPolicy,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	authRateLimit int,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		policy:            policy,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		authRateLimit:     authRateLimit,
	}
}

// can wraps h with a capability check.
func (r *Router) can(resource, action string, h http.HandlerFunc) http.Handler {
	return middleware.RequireCapability(r.policy, resource, action)(h)
}

func (r *Router) Setup() http.Handler {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// WebSockets authenticate with ?token= inside the handshake
	api.HandleFunc("/chat/ws/{user_id}", h.Socket.ServeChat).Methods(http.MethodGet)
	api.HandleFunc("/notifications/ws/{user_id}", h.Socket.ServeNotifications).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RateLimitByIP(r.authRateLimit))
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)
	auth.Handle("/logout", r.authMiddleware.Authenticate(http.HandlerFunc(h.Auth.Logout))).Methods(http.MethodPost)
	auth.Handle("/me", r.authMiddleware.Authenticate(http.HandlerFunc(h.Auth.GetCurrentUser))).Methods(http.MethodGet)

	// Everything below requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Users (admin)
	protected.Handle("/users", r.can(service.ResourceUser, service.ActionCreate, h.User.CreateUser)).Methods(http.MethodPost)
	protected.Handle("/users", r.can(service.ResourceUser, service.ActionRead, h.User.GetAllUsers)).Methods(http.MethodGet)
	protected.Handle("/users/{id}", r.can(service.ResourceUser, service.ActionRead, h.User.GetUser)).Methods(http.MethodGet)
	protected.Handle("/users/{id}", r.can(service.ResourceUser, service.ActionUpdate, h.User.UpdateUser)).Methods(http.MethodPut)
	protected.Handle("/users/{id}", r.can(service.ResourceUser, service.ActionDelete, h.User.DeleteUser)).Methods(http.MethodDelete)

	// Reference data: readable by anyone signed in, admin-mutable
	protected.HandleFunc("/roles", h.Reference.GetAllRoles).Methods(http.MethodGet)
	protected.HandleFunc("/roles/{id}", h.Reference.GetRole).Methods(http.MethodGet)
	protected.Handle("/roles", r.can(service.ResourceRole, service.ActionCreate, h.Reference.CreateRole)).Methods(http.MethodPost)
	protected.Handle("/roles/{id}", r.can(service.ResourceRole, service.ActionUpdate, h.Reference.UpdateRole)).Methods(http.MethodPut)
	protected.Handle("/roles/{id}", r.can(service.ResourceRole, service.ActionDelete, h.Reference.DeleteRole)).Methods(http.MethodDelete)

	protected.HandleFunc("/departments", h.Reference.GetAllDepartments).Methods(http.MethodGet)
	protected.HandleFunc("/departments/{id}", h.Reference.GetDepartment).Methods(http.MethodGet)
	protected.Handle("/departments", r.can(service.ResourceDepartment, service.ActionCreate, h.Reference.CreateDepartment)).Methods(http.MethodPost)
	protected.Handle("/departments/{id}", r.can(service.ResourceDepartment, service.ActionUpdate, h.Reference.UpdateDepartment)).Methods(http.MethodPut)
	protected.Handle("/departments/{id}", r.can(service.ResourceDepartment, service.ActionDelete, h.Reference.DeleteDepartment)).Methods(http.MethodDelete)

	protected.HandleFunc("/specializations", h.Reference.GetAllSpecializations).Methods(http.MethodGet)
	protected.HandleFunc("/specializations/{id}", h.Reference.GetSpecialization).Methods(http.MethodGet)
	protected.Handle("/specializations", r.can(service.ResourceSpecialization, service.ActionCreate, h.Reference.CreateSpecialization)).Methods(http.MethodPost)
	protected.Handle("/specializations/{id}", r.can(service.ResourceSpecialization, service.ActionUpdate, h.Reference.UpdateSpecialization)).Methods(http.MethodPut)
	protected.Handle("/specializations/{id}", r.can(service.ResourceSpecialization, service.ActionDelete, h.Reference.DeleteSpecialization)).Methods(http.MethodDelete)

	// Doctors, calendars and slot generators
	protected.HandleFunc("/doctors", h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	protected.Handle("/doctors", r.can(service.ResourceDoctor, service.ActionCreate, h.Doctor.CreateDoctor)).Methods(http.MethodPost)
	protected.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)
	protected.Handle("/doctors/{id}", r.can(service.ResourceDoctor, service.ActionDelete, h.Doctor.DeleteDoctor)).Methods(http.MethodDelete)
	protected.Handle("/doctors/{id}/calendar", r.can(service.ResourceCalendar, service.ActionManage, h.Doctor.UpsertCalendar)).Methods(http.MethodPut)
	protected.Handle("/doctors/{id}/timeslots", r.can(service.ResourceTimeSlot, service.ActionCreate, h.Doctor.GenerateDaySlots)).Methods(http.MethodPost)
	protected.Handle("/doctors/{id}/bulk-timeslots", r.can(service.ResourceTimeSlot, service.ActionCreate, h.Doctor.BulkGenerateSlots)).Methods(http.MethodPost)

	// Time slots
	protected.HandleFunc("/timeslots", h.TimeSlot.GetTimeSlots).Methods(http.MethodGet)
	protected.Handle("/timeslots/bulk", r.can(service.ResourceTimeSlot, service.ActionCreate, h.TimeSlot.BulkGenerate)).Methods(http.MethodPost)
	protected.HandleFunc("/timeslots/{id}", h.TimeSlot.GetTimeSlot).Methods(http.MethodGet)
	protected.Handle("/timeslots", r.can(service.ResourceTimeSlot, service.ActionCreate, h.TimeSlot.CreateTimeSlot)).Methods(http.MethodPost)
	protected.Handle("/timeslots/{id}", r.can(service.ResourceTimeSlot, service.ActionUpdate, h.TimeSlot.UpdateTimeSlot)).Methods(http.MethodPut)
	protected.Handle("/timeslots/{id}", r.can(service.ResourceTimeSlot, service.ActionDelete, h.TimeSlot.DeleteTimeSlot)).Methods(http.MethodDelete)

	// Appointments
	protected.Handle("/appointments", r.can(service.ResourceAppointment, service.ActionCreate, h.Appointment.BookAppointment)).Methods(http.MethodPost)
	protected.Handle("/appointments", r.can(service.ResourceAppointment, service.ActionRead, h.Appointment.GetAppointments)).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}", r.can(service.ResourceAppointment, service.ActionRead, h.Appointment.GetAppointment)).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}", r.can(service.ResourceAppointment, service.ActionUpdate, h.Appointment.UpdateAppointment)).Methods(http.MethodPut)
	protected.Handle("/appointments/{id}", r.can(service.ResourceAppointment, service.ActionUpdate, h.Appointment.CancelAppointment)).Methods(http.MethodDelete)

	// Patients, allergies and medications; self access is decided per patient
	protected.Handle("/patients", r.can(service.ResourcePatient, service.ActionCreate, h.Patient.CreatePatient)).Methods(http.MethodPost)
	protected.Handle("/patients", r.can(service.ResourcePatient, service.ActionRead, h.Patient.GetAllPatients)).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	protected.Handle("/patients/{id}", r.can(service.ResourcePatient, service.ActionDelete, h.Patient.DeletePatient)).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{id}/allergies", h.Patient.GetAllergies).Methods(http.MethodGet)
	protected.Handle("/patients/{id}/allergies", r.can(service.ResourceAllergy, service.ActionCreate, h.Patient.AddAllergy)).Methods(http.MethodPost)
	protected.Handle("/patients/{id}/allergies/{allergy_id}", r.can(service.ResourceAllergy, service.ActionCreate, h.Patient.DeleteAllergy)).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{id}/medications", h.Patient.GetMedications).Methods(http.MethodGet)
	protected.Handle("/patients/{id}/medications", r.can(service.ResourceMedication, service.ActionCreate, h.Patient.AddMedication)).Methods(http.MethodPost)

	// Medical records
	protected.Handle("/medical-records", r.can(service.ResourceMedicalRecord, service.ActionCreate, h.MedicalRecord.CreateMedicalRecord)).Methods(http.MethodPost)
	protected.Handle("/medical-records", r.can(service.ResourceMedicalRecord, service.ActionRead, h.MedicalRecord.GetMedicalRecords)).Methods(http.MethodGet)
	protected.Handle("/medical-records/{id}", r.can(service.ResourceMedicalRecord, service.ActionRead, h.MedicalRecord.GetMedicalRecord)).Methods(http.MethodGet)
	protected.Handle("/medical-records/{id}", r.can(service.ResourceMedicalRecord, service.ActionUpdate, h.MedicalRecord.UpdateMedicalRecord)).Methods(http.MethodPut)
	protected.Handle("/medical-records/{id}", r.can(service.ResourceMedicalRecord, service.ActionDelete, h.MedicalRecord.DeleteMedicalRecord)).Methods(http.MethodDelete)

	// Insurance; patients may read the policy their row references
	protected.Handle("/insurance", r.can(service.ResourceInsurance, service.ActionCreate, h.Insurance.CreateInsurance)).Methods(http.MethodPost)
	protected.Handle("/insurance", r.can(service.ResourceInsurance, service.ActionRead, h.Insurance.GetAllInsurance)).Methods(http.MethodGet)
	protected.HandleFunc("/insurance/{id}", h.Insurance.GetInsurance).Methods(http.MethodGet)
	protected.Handle("/insurance/{id}", r.can(service.ResourceInsurance, service.ActionUpdate, h.Insurance.UpdateInsurance)).Methods(http.MethodPut)
	protected.Handle("/insurance/{id}", r.can(service.ResourceInsurance, service.ActionDelete, h.Insurance.DeleteInsurance)).Methods(http.MethodDelete)

	// Chat
	protected.HandleFunc("/chat/contacts", h.Chat.GetContacts).Methods(http.MethodGet)
	protected.HandleFunc("/chat/messages", h.Chat.GetMessages).Methods(http.MethodGet)
	protected.HandleFunc("/chat/send", h.Chat.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/chat/messages/read-all", h.Chat.MarkAllRead).Methods(http.MethodPut)
	protected.HandleFunc("/chat/messages/{id}/read", h.Chat.MarkRead).Methods(http.MethodPut)

	// Notifications
	protected.Handle("/notifications", r.can(service.ResourceNotification, service.ActionCreate, h.Notification.CreateNotification)).Methods(http.MethodPost)
	protected.HandleFunc("/notifications", h.Notification.GetNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", h.Notification.MarkAllRead).Methods(http.MethodPut)
	protected.HandleFunc("/notifications/{id}/read", h.Notification.MarkRead).Methods(http.MethodPut)
	protected.HandleFunc("/notifications/{id}", h.Notification.DeleteNotification).Methods(http.MethodDelete)

	// Chatbot
	protected.HandleFunc("/chatbot/query", h.Chatbot.Query).Methods(http.MethodPost)
	protected.HandleFunc("/chatbot/history", h.Chatbot.GetHistory).Methods(http.MethodGet)

	// Audit logs (admin)
	protected.Handle("/admin/audit-logs", r.can(service.ResourceAuditLog, service.ActionRead, h.AuditLog.GetAllAuditLogs)).Methods(http.MethodGet)
	protected.Handle("/admin/audit-logs/{id}", r.can(service.ResourceAuditLog, service.ActionRead, h.AuditLog.GetAuditLog)).Methods(http.MethodGet)

	// CORS wraps the mux so preflight requests never reach route matching
	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
