package models

// PushSubscription is the subscription record exchanged with the API's
// notification endpoints. Delivery mechanics live entirely server-side;
// the client only performs the subscribe/unsubscribe handshake and keeps
// the record in sync metadata.
type PushSubscription struct {
	Endpoint string               `json:"endpoint"`
	Keys     PushSubscriptionKeys `json:"keys"`
}

// PushSubscriptionKeys holds the client keys for the subscription.
type PushSubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}
