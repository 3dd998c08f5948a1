package mq

import "time"

// WidgetsUpdatedPayload goes out on "article.widgets_updated" after every
// successful widget collection write.
type WidgetsUpdatedPayload struct {
	SiteID    int       `json:"site_id"`
	ArticleID int       `json:"article_id"`
	Slug      string    `json:"slug"`
	Warnings  int       `json:"warnings"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriberPayload goes out on "subscriber.subscribed",
// "subscriber.unsubscribed" and "subscriber.resubscribed".
type SubscriberPayload struct {
	SiteID     int       `json:"site_id"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
