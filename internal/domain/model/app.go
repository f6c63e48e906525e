package model

import "time"

// App is a third-party integration descriptor from the apps marketplace.
type App struct {
	ID        int64
	Name      string
	Status    AppStatus
	CreatedAt time.Time
}
