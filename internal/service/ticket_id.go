package service

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	ticketPrefix    = "MIJ"
	ticketTimestamp = "20060102150405"
)

// TicketIDGenerator builds human-readable ticket ids of the form
// MIJ-<yyyyMMddHHmmss>-<1000..9999>. Uniqueness is probabilistic.
type TicketIDGenerator struct {
	loc  *time.Location
	intN func(n int) int
}

// NewTicketIDGenerator renders timestamps in loc.
func NewTicketIDGenerator(loc *time.Location) *TicketIDGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &TicketIDGenerator{loc: loc, intN: rand.Intn}
}

// Next returns a ticket id for a report created at now.
func (g *TicketIDGenerator) Next(now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", ticketPrefix, now.In(g.loc).Format(ticketTimestamp), 1000+g.intN(9000))
}
