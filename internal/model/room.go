package model

// Room is a screening room referenced by showtimes.  Capacity is
// informational only: the remote store is the authority on whether a
// reservation still fits, and nothing in this process keeps a seat
// ledger (see DESIGN.md).
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
