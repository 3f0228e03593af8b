package domain

import (
	"strings"
	"time"
)

// Urgency levels recognised by the SLA table.
const (
	UrgencyUrgent  = "mendesak"
	UrgencyRegular = "biasa"
	UrgencyNormal  = "normal"
)

const defaultSLADays = 3

var slaDays = map[string]int{
	UrgencyUrgent:  1,
	UrgencyRegular: 7,
}

// SLADays returns the number of calendar days allowed for an urgency level.
// Matching is case-insensitive; unknown or empty urgencies get the default.
func SLADays(urgency string) int {
	if days, ok := slaDays[strings.ToLower(strings.TrimSpace(urgency))]; ok {
		return days
	}
	return defaultSLADays
}

// SLADeadline is createdAt plus the urgency's day offset, same time of day.
func SLADeadline(urgency string, createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, SLADays(urgency))
}
