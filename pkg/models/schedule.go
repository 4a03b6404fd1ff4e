package models

import "time"

// ScheduleUpdate is the body posted to /api/schedule/update after an event is dragged.
type ScheduleUpdate struct {
	ID            string         `json:"id"`
	Start         time.Time      `json:"start"`
	End           time.Time      `json:"end"`
	Title         string         `json:"title"`
	ExtendedProps map[string]any `json:"extendedProps"`
}

// ScheduleEvent is a calendar event as the board sees it when one is clicked.
type ScheduleEvent struct {
	ID            ID             `json:"id"`
	Title         string         `json:"title"`
	Start         string         `json:"start"`
	End           string         `json:"end,omitempty"`
	ExtendedProps map[string]any `json:"extendedProps,omitempty"`
}
