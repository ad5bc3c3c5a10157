// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// NotificationQueueName is the durable queue notification intents are
// published to.  Actual delivery (mail, SMS) is a downstream concern.
const NotificationQueueName = "reservation.notifications"

// NotificationKind distinguishes the two intents fired on a successful
// admission.
type NotificationKind string

const (
	// KindDinerConfirmation is sent to the diner with their confirm and
	// cancel links.
	KindDinerConfirmation NotificationKind = "diner_confirmation"
	// KindRestaurantAlert tells the restaurant a new booking landed.
	KindRestaurantAlert NotificationKind = "restaurant_alert"
)

// ReservationNotice is published once per notification intent when a
// reservation is admitted.  It carries enough information for downstream
// consumers to render a message without querying the primary database.
type ReservationNotice struct {
	Kind            NotificationKind `json:"kind"`
	ReservationID   uint64           `json:"reservation_id"`
	Code            string           `json:"code"`
	RestaurantID    uint64           `json:"restaurant_id"`
	RestaurantName  string           `json:"restaurant_name"`
	RestaurantEmail string           `json:"restaurant_email"`
	GuestName       string           `json:"guest_name"`
	GuestEmail      string           `json:"guest_email"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	Guests          int              `json:"guests"`
	ConfirmURL      string           `json:"confirm_url,omitempty"`
	CancelURL       string           `json:"cancel_url,omitempty"`
	CreatedAt       string           `json:"created_at"`
}
