// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// ReservationConfirmedEvent is published after the remote store
// confirms a reservation.  It carries enough denormalized context for
// downstream consumers to log or notify without calling the store.
type ReservationConfirmedEvent struct {
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	ShowtimeID    string `json:"showtime_id"`
	FilmTitle     string `json:"film_title"`
	RoomName      string `json:"room_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Seats         int    `json:"seats"`
	ConfirmedAt   string `json:"confirmed_at"`
}
