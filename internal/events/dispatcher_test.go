package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string
	d.Subscribe(EventReportCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.ReportID)
		return errors.New("boom")
	})
	d.Subscribe(EventReportCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.ReportID)
		return nil
	})
	d.Subscribe(EventReportUpdated, func(_ context.Context, e Event) error {
		seen = append(seen, "updated")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventReportCreated, ReportID: "r1"})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first:r1", "second:r1"}, seen)
}

func TestDispatcherNoListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventReportCompleted}))
}
