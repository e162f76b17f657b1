package models

import "time"

type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	Club          string
	Role          string
	Phone         string
	EmailVerified bool
	PhoneVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
