package model

// Stats carries the dashboard counters computed by the remote store.
// The gateway enriches them with a per-day reservation series before
// serving the admin dashboard.
type Stats struct {
	TotalFilms        int `json:"total_films"`
	TotalRooms        int `json:"total_rooms"`
	UpcomingShowtimes int `json:"upcoming_showtimes"`
	TotalReservations int `json:"total_reservations"`
	TotalUsers        int `json:"total_users"`
}
