package model

import "time"

// Reservation statuses as stored by the remote store.  A reservation
// is created confirmed and may transition to cancelled exactly once;
// there are no further transitions.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Reservation records a user's booking of seats for a showtime.  The
// remote store owns the record; the gateway only creates, cancels or
// deletes it through explicit calls and otherwise holds disposable
// copies for display.
//
// Fields:
//  ID         – remote identifier of the reservation.
//  UserID     – owning user reference.
//  ShowtimeID – reserved showtime reference.
//  User       – embedded user record when the store expands it.
//  Showtime   – embedded showtime record when the store expands it.
//  Seats      – requested seat count (positive).
//  Status     – "confirmed" or "cancelled".
//  CreatedAt  – creation timestamp set by the store.
type Reservation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ShowtimeID string    `json:"showtime_id"`
	User       *User     `json:"user,omitempty"`
	Showtime   *Showtime `json:"showtime,omitempty"`
	Seats      int       `json:"seats"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
