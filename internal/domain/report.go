package domain

import (
	"strings"
	"time"

	"github.com/guregu/null/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report lifecycle statuses. Clients may store other values; nothing validates them.
const (
	StatusAwaitingAssignment = "Menunggu Penugasan"
	StatusInProgress         = "Dalam Proses"
	StatusPending            = "Tertunda"
	StatusDone               = "Selesai"
)

// Document keys controlled by the server.
const (
	FieldTicketID     = "ticketId"
	FieldStatus       = "status"
	FieldUrgency      = "urgensi"
	FieldCreatedAt    = "timestamp"
	FieldSLADeadline  = "slaDeadline"
	FieldAssignedTo   = "assignedTo"
	FieldAssignedAt   = "assignedAt"
	FieldLastUpdateAt = "lastUpdateAt"
	FieldCompletedOn  = "tglSelesai"
	FieldClosingNote  = "catatanPenutup"
)

// Document keys submitted by reporters.
const (
	FieldReporter    = "pelapor"
	FieldUnit        = "unit"
	FieldCategory    = "kategori"
	FieldLocation    = "lokasi"
	FieldDescription = "deskripsi"
)

// CompletionDateLayout is the calendar-date format of tglSelesai.
const CompletionDateLayout = "2006-01-02"

// ImmutableFields are fixed at creation and never rewritten by updates.
var ImmutableFields = []string{FieldTicketID, FieldCreatedAt, FieldSLADeadline}

// Report is a stored report document: the store-assigned id plus the
// submitted payload merged with the server-controlled fields.
type Report struct {
	ID     string
	Fields map[string]any
}

// NewReportFields merges the server-controlled fields of a fresh report over
// the submitted payload. The payload map is not modified.
func NewReportFields(payload map[string]any, ticketID string, createdAt time.Time) map[string]any {
	fields := make(map[string]any, len(payload)+9)
	for k, v := range payload {
		fields[k] = v
	}
	urgency, _ := payload[FieldUrgency].(string)

	fields[FieldTicketID] = ticketID
	fields[FieldStatus] = StatusAwaitingAssignment
	fields[FieldCreatedAt] = createdAt
	fields[FieldSLADeadline] = SLADeadline(urgency, createdAt)
	fields[FieldAssignedTo] = ""
	fields[FieldAssignedAt] = nil
	fields[FieldLastUpdateAt] = createdAt
	fields[FieldCompletedOn] = ""
	fields[FieldClosingNote] = ""
	return fields
}

func (r Report) TicketID() string     { return r.StringField(FieldTicketID).ValueOrZero() }
func (r Report) Status() string       { return r.StringField(FieldStatus).ValueOrZero() }
func (r Report) Urgency() string      { return r.StringField(FieldUrgency).ValueOrZero() }
func (r Report) CreatedAt() null.Time { return r.TimeField(FieldCreatedAt) }
func (r Report) SLADeadline() null.Time {
	return r.TimeField(FieldSLADeadline)
}

// StringField returns a string field. Non-string values are treated as absent.
func (r Report) StringField(key string) null.String {
	switch v := r.Fields[key].(type) {
	case string:
		return null.StringFrom(v)
	case *string:
		return null.StringFromPtr(v)
	default:
		return null.String{}
	}
}

// TimeField returns a timestamp field stored either natively or as an RFC 3339 string.
func (r Report) TimeField(key string) null.Time {
	switch v := r.Fields[key].(type) {
	case time.Time:
		return null.TimeFrom(v)
	case *time.Time:
		return null.TimeFromPtr(v)
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
		if err != nil {
			return null.Time{}
		}
		return null.TimeFrom(t)
	default:
		return null.Time{}
	}
}

// MarshalJSON renders the stored fields with the document id under "id".
func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	return json.Marshal(out)
}
