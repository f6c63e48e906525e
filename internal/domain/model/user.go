package model

import "time"

// User identifies the workspace member who authorized an app installation.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}
