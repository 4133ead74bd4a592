package routes

import (
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/api/handlers"
	"github.com/zatekoja/dentalclinic/internal/api/middleware"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// Handlers groups every route handler
type Handlers struct {
	Session     *handlers.SessionHandler
	Directory   *handlers.DirectoryHandler
	Appointment *handlers.AppointmentHandler
	WalkIn      *handlers.WalkInHandler
	Record      *handlers.RecordHandler
	Dashboard   *handlers.DashboardHandler
	SSE         *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	handlers       Handlers
	authenticator  middleware.Authenticator
	bookingLimiter *middleware.RateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	h Handlers,
	authenticator middleware.Authenticator,
	bookingLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		handlers:       h,
		authenticator:  authenticator,
		bookingLimiter: bookingLimiter,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Session and navigation
	r.mux.HandleFunc("GET /api/session", r.handlers.Session.GetSession)
	r.mux.HandleFunc("GET /api/sections/{section}", r.handlers.Session.ResolveSection)

	// Directory
	r.mux.HandleFunc("GET /api/services", r.handlers.Directory.ListServices)
	r.mux.HandleFunc("GET /api/dentists", r.handlers.Directory.ListDentists)

	// Appointments
	publicBooking := r.handlers.Appointment.BookPublic
	if r.bookingLimiter != nil {
		publicBooking = r.bookingLimiter.Limit(publicBooking)
	}
	r.mux.HandleFunc("POST /api/public/appointments", publicBooking)
	r.mux.HandleFunc("POST /api/appointments", r.handlers.Appointment.BookAppointment)
	r.mux.HandleFunc("GET /api/appointments", r.handlers.Appointment.ListAppointments)
	r.mux.HandleFunc("GET /api/appointments/{id}", r.handlers.Appointment.GetAppointment)
	r.mux.HandleFunc("PATCH /api/appointments/{id}/status", r.handlers.Appointment.UpdateStatus)
	r.mux.HandleFunc("DELETE /api/appointments/{id}", r.handlers.Appointment.DeleteAppointment)

	// Walk-in queue
	r.mux.HandleFunc("GET /api/walk-ins", r.handlers.WalkIn.ListQueue)
	r.mux.HandleFunc("POST /api/walk-ins", r.handlers.WalkIn.Enqueue)
	r.mux.HandleFunc("POST /api/walk-ins/next", r.handlers.WalkIn.DequeueNext)
	r.mux.HandleFunc("POST /api/walk-ins/{id}/complete", r.handlers.WalkIn.Complete)

	// Patient records
	r.mux.HandleFunc("GET /api/records", r.handlers.Record.SearchRecords)
	r.mux.HandleFunc("POST /api/records", r.handlers.Record.CreateRecord)
	r.mux.HandleFunc("PATCH /api/records/{id}", r.handlers.Record.EditRecord)
	r.mux.HandleFunc("GET /api/me/records", r.handlers.Record.MyRecords)

	// Dashboard and live events
	r.mux.HandleFunc("GET /api/dashboard", r.handlers.Dashboard.GetStats)
	if r.handlers.SSE != nil {
		r.mux.HandleFunc("GET /api/events", r.handlers.SSE.StreamAppointmentEvents)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// Observability must sit directly on the mux so it sees the matched pattern.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.IdentityMiddleware(r.authenticator)(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so preflights never need a session
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
