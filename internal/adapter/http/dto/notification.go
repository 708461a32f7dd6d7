package dto

type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// SubscribeRequest mirrors the browser PushSubscription JSON.
type SubscribeRequest struct {
	Endpoint string           `json:"endpoint" binding:"required,url"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}

type UnsubscribeRequest struct {
	Endpoint *string `json:"endpoint"`
}

type SubscriptionItem struct {
	ID       string `json:"id"`
	Endpoint string `json:"endpoint"`
}
