package sessions

import "time"

// Session maps an opaque token to the authenticated account
type Session struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Token     string    `bson:"token" json:"token"`
	AccountID string    `bson:"accountId" json:"accountId"`
	Username  string    `bson:"username" json:"username"`
	Admin     bool      `bson:"admin" json:"admin"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
