package model

import "time"

// Article is one published piece owned by a site. Widgets holds the raw
// widget collection JSON; every read and write of it goes through the
// widget validator. TrackingConfig is tenant-defined and never
// interpreted by the backend, only stored and forwarded.
type Article struct {
	ID             int
	SiteID         int
	Slug           string
	Title          string
	AuthorName     *string
	AuthorImage    *string
	Widgets        []byte
	TrackingConfig map[string]any
	DisplayViews   int
	DisplayLikes   int
	UpdatedAt      time.Time
}
