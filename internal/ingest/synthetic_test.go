package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzangaro/miti/internal/domain"
)

type collectingSink struct {
	alerts []domain.Alert
}

func (s *collectingSink) Ingest(alert domain.Alert) domain.Alert {
	alert.ID = int64(len(s.alerts) + 1)
	s.alerts = append(s.alerts, alert)
	return alert
}

func TestSeedGeneratesRequestedCount(t *testing.T) {
	sink := &collectingSink{}
	feed := NewSyntheticFeed(1)

	out := feed.Seed(sink, 25)

	assert.Len(t, out, 25)
	assert.Len(t, sink.alerts, 25)
}

func TestGeneratedAlertsAreWellFormed(t *testing.T) {
	sink := &collectingSink{}
	NewSyntheticFeed(1).Seed(sink, 50)

	for _, alert := range sink.alerts {
		assert.Contains(t, alertTypes, alert.AlertType)
		assert.Contains(t, locations, alert.Location)
		assert.Contains(t, assignees, alert.AssignedTo)
		assert.Contains(t, sources, alert.Source)
		assert.Contains(t, severities, alert.Severity)
		assert.Contains(t, statuses, alert.Status)
		assert.Regexp(t, `^POL-\d{7}$`, alert.PolicyNumber)
		assert.Regexp(t, `^\(\d{3}\) \d{3}-\d{4}$`, alert.ContactPhone)
		assert.NotEmpty(t, alert.Timestamp)
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a := &collectingSink{}
	b := &collectingSink{}

	NewSyntheticFeed(7).Seed(a, 10)
	NewSyntheticFeed(7).Seed(b, 10)

	require.Len(t, b.alerts, len(a.alerts))
	for i := range a.alerts {
		// Timestamps derive from the wall clock, the rest from the seed.
		a.alerts[i].Timestamp = ""
		b.alerts[i].Timestamp = ""
		assert.Equal(t, a.alerts[i], b.alerts[i])
	}
}
