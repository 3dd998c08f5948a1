package model

import "time"

const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber belongs to exactly one site. Email is stored lower-cased and
// is unique per site. UnsubscribedAt is set iff status is unsubscribed.
type Subscriber struct {
	SiteID         int
	Email          string
	Status         string
	UnsubscribedAt *time.Time
	CreatedAt      time.Time
}
