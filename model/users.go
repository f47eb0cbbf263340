package model

import "time"

type User struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Username  string    `bson:"username" json:"username" validate:"required,min=4,max=20"`
	Email     string    `bson:"email" json:"email" validate:"required,email"`
	Password  string    `bson:"password" json:"-" validate:"required,min=6"` // Hashed password field
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
