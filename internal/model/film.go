package model

// Film is a movie as served by the remote cinema store.  The gateway
// treats films as read-only display data: it never mutates a film
// except through the explicit admin CRUD calls, and it holds only
// transient copies fetched per request.
//
// Fields:
//  ID          – remote identifier of the film.
//  Title       – display title.
//  Genre       – single genre label.
//  RuntimeMin  – runtime in minutes.
//  Description – synopsis shown on the details screen.
//  PosterURL   – reference to the poster image.
type Film struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	RuntimeMin  int    `json:"runtime_min"`
	Description string `json:"description"`
	PosterURL   string `json:"poster_url"`
}
