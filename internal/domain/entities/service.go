package entities

// Service is a treatment offered by the clinic
type Service struct {
	ID              string  `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Price           float64 `json:"price" db:"price"`
	DurationMinutes int     `json:"duration_minutes" db:"duration_minutes"`
}
