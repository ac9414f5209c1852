package utils

import (
	"time"
)

// DaysSinceJoined reports how many whole days ago an account was created.
func DaysSinceJoined(createdAt time.Time) int {
	return int(time.Since(createdAt).Hours() / 24)
}
