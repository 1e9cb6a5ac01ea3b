package model

// Showtime is a scheduled screening of a film in a room.  Date and
// Time are kept as the wire strings the remote store serves ("2006-01-02"
// and "15:04"); they are interpreted in the viewer's local clock when a
// display status is derived.  The store may embed the owning film and
// room for convenience, so both are optional pointers.
//
// Fields:
//  ID     – remote identifier of the showtime.
//  FilmID – owning film reference.
//  RoomID – owning room reference.
//  Film   – embedded film record when the store expands it.
//  Room   – embedded room record when the store expands it.
//  Date   – calendar date ("2006-01-02"; an RFC3339 prefix is tolerated).
//  Time   – local time of day ("15:04").
type Showtime struct {
	ID     string `json:"id"`
	FilmID string `json:"film_id"`
	RoomID string `json:"room_id"`
	Film   *Film  `json:"film,omitempty"`
	Room   *Room  `json:"room,omitempty"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// FilmTitle returns the embedded film title or an empty string.  Admin
// list filtering sorts on this accessor.
func (s Showtime) FilmTitle() string {
	if s.Film != nil {
		return s.Film.Title
	}
	return ""
}

// RoomName returns the embedded room name or an empty string.
func (s Showtime) RoomName() string {
	if s.Room != nil {
		return s.Room.Name
	}
	return ""
}
