package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated   EventType = "report.created"
	EventReportUpdated   EventType = "report.updated"
	EventReportCompleted EventType = "report.completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ReportID  string    `json:"report_id"`
	ActorUID  string    `json:"actor_uid,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	TicketID    string    `json:"ticket_id"`
	Urgency     string    `json:"urgensi,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	SLADeadline time.Time `json:"sla_deadline"`
}

// ReportUpdatedPayload lists the keys written by the update.
type ReportUpdatedPayload struct {
	Fields []string `json:"fields"`
	Status string   `json:"status,omitempty"`
}

// ReportCompletedPayload payload.
type ReportCompletedPayload struct {
	CompletedOn string `json:"tgl_selesai"`
	ClosingNote string `json:"catatan_penutup,omitempty"`
}
