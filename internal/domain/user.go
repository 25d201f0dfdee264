package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an authenticated principal. Credential material is either
// a bcrypt password hash or a third-party provider id; at least one must be
// present. Email, when set, is unique across users.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Firstname    string             `bson:"firstname,omitempty" json:"firstname,omitempty"`
	Lastname     string             `bson:"lastname,omitempty" json:"lastname,omitempty"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON
	GithubID     string             `bson:"githubId,omitempty" json:"-"`
	FacebookID   string             `bson:"facebookId,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasCredential reports whether the user carries at least one way to prove
// who they are.
func (u *User) HasCredential() bool {
	return u.PasswordHash != "" || u.GithubID != "" || u.FacebookID != ""
}
