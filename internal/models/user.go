package models

import "time"

// AdminUsername is the reserved elevated identity. It never appears on the
// leaderboard or in weekly reconciliation output.
const AdminUsername = "admin"

// User is a league member. The users document maps username to this record.
type User struct {
	Passcode    string    `json:"passcode"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// Users maps username to the user record.
type Users map[string]User
