package entities

// RecentAppointmentsLimit caps DashboardStats.RecentAppointments.
const RecentAppointmentsLimit = 5

// DashboardStats are the clinic metrics derived from the stores
type DashboardStats struct {
	TodayScheduled        int            `json:"today_scheduled"`
	TotalPatients         int            `json:"total_patients"`
	TotalRevenue          float64        `json:"total_revenue"`
	CompletedAppointments int            `json:"completed_appointments"`
	ScheduledAppointments int            `json:"scheduled_appointments"`
	CancelledAppointments int            `json:"cancelled_appointments"`
	NoShowAppointments    int            `json:"no_show_appointments"`
	AnonymousBookings     int            `json:"anonymous_bookings"`
	RecentAppointments    []*Appointment `json:"recent_appointments"`
}
