package models

import "time"

// User is an account record. Password is stored as a bcrypt hash only.
type User struct {
	UserID       string    `json:"userId" bson:"userid"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash string    `json:"-" bson:"passwordhash"`
	Role         []string  `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdat"`
	LastLogin    time.Time `json:"lastLogin,omitempty" bson:"lastlogin,omitempty"`
}

// ContactQuery is a contact-form submission.
type ContactQuery struct {
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
}
