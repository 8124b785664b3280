package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an authenticated owner. Users are created on first WeChat login
// and identified by their openid afterwards.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	OpenID           string             `bson:"openid"`
	Nickname         string             `bson:"nickname,omitempty"`
	AvatarURL        string             `bson:"avatarUrl,omitempty"`
	SessionKey       string             `bson:"sessionKey,omitempty"`
	LastLoginTime    time.Time          `bson:"lastLoginTime"`
	IsActive         bool               `bson:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt"`
	IsMember         bool               `bson:"isMember"`
	MemberExpiryDate *time.Time         `bson:"memberExpiryDate,omitempty"`
}

// UserProfile is the subset of user fields returned to the client.
type UserProfile struct {
	IsNewUser        bool       `json:"isNewUser"`
	Nickname         string     `json:"nickname"`
	AvatarURL        string     `json:"avatarUrl"`
	IsMember         bool       `json:"isMember"`
	MemberExpiryDate *time.Time `json:"memberExpiryDate,omitempty"`
}
