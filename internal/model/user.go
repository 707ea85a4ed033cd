package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account in the system.
//
// PasswordHash always holds an encoded argon2 digest, never a plaintext
// password. PasswordResetCode is nil except between a successful password
// reset request and the completion (or replacement) of that reset.
type User struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Email             string        `bson:"email"`
	FirstName         string        `bson:"first_name"`
	LastName          string        `bson:"last_name"`
	PasswordHash      string        `bson:"password_hash"`
	Verified          bool          `bson:"verified"`
	VerificationCode  string        `bson:"verification_code"`
	PasswordResetCode *string       `bson:"password_reset_code"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}
