package entity

// Session is the signed-in user's view: identity, plan and remaining quota.
type Session struct {
	UserID       string       `json:"user_id"`
	Email        string       `json:"email,omitempty"`
	Subscription Subscription `json:"subscription"`
	Usage        Quota        `json:"usage"`
}
