// Package ingest feeds alerts into the store: a synthetic generator for demo
// and test environments, and an MQTT subscriber for live sensor fleets.
package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dzangaro/miti/internal/domain"
)

// Sink accepts alerts from a feed. Satisfied by service.AlertService.
type Sink interface {
	Ingest(alert domain.Alert) domain.Alert
}

var (
	alertTypes = []string{
		"Water Leak",
		"Smoke Detection",
		"Temperature Spike",
		"Humidity Anomaly",
		"Motion Detection",
		"Structural Movement",
		"Pressure Anomaly",
		"Natural Gas Detection",
		"Carbon Monoxide",
		"Freezing Condition",
	}
	locations = []string{
		"Los Angeles, CA 90024",
		"New York, NY 10001",
		"Chicago, IL 60601",
		"Houston, TX 77001",
		"Miami, FL 33101",
		"Seattle, WA 98101",
		"Boston, MA 02108",
		"Denver, CO 80202",
	}
	assignees = []string{
		"John Smith",
		"Maria Rodriguez",
		"David Johnson",
		"Sarah Kim",
		"Robert Chen",
		"Jennifer Williams",
		"Michael Brown",
		"Lisa Garcia",
		"James Wilson",
	}
	severities = []domain.Severity{
		domain.SeverityCritical,
		domain.SeverityHigh,
		domain.SeverityMedium,
		domain.SeverityLow,
	}
	sources = []string{
		"Smart Water Sensor",
		"Temperature Monitor",
		"Smoke Detector",
		"Humidity Sensor",
		"Motion Detector",
		"Structural Monitor",
		"Pressure Sensor",
		"Gas Detector",
	}
	statuses = []domain.AlertStatus{
		domain.AlertStatusActive,
		domain.AlertStatusInvestigation,
		domain.AlertStatusClosed,
	}
)

// SyntheticFeed generates demo alerts when no live sensor feed is wired up.
// Ids are assigned by the store at ingest.
type SyntheticFeed struct {
	rng *rand.Rand
}

func NewSyntheticFeed(seed int64) *SyntheticFeed {
	return &SyntheticFeed{rng: rand.New(rand.NewSource(seed))}
}

// Seed pushes n generated alerts into the sink and returns them.
func (f *SyntheticFeed) Seed(sink Sink, n int) []domain.Alert {
	out := make([]domain.Alert, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sink.Ingest(f.generate()))
	}
	return out
}

func (f *SyntheticFeed) generate() domain.Alert {
	alert := domain.Alert{
		Severity:     severities[f.rng.Intn(len(severities))],
		AlertType:    alertTypes[f.rng.Intn(len(alertTypes))],
		Location:     locations[f.rng.Intn(len(locations))],
		AssignedTo:   assignees[f.rng.Intn(len(assignees))],
		Source:       sources[f.rng.Intn(len(sources))],
		Timestamp:    time.Now().Add(-time.Duration(f.rng.Int63n(int64(115 * 24 * time.Hour)))).Format("1/2/2006, 3:04:05 PM"),
		PolicyNumber: fmt.Sprintf("POL-%07d", f.rng.Intn(10000000)),
		ContactPhone: fmt.Sprintf("(%03d) %03d-%04d", f.rng.Intn(900)+100, f.rng.Intn(900)+100, f.rng.Intn(10000)),
		Status:       statuses[f.rng.Intn(len(statuses))],
	}
	if f.rng.Intn(2) == 0 {
		alert.Notes = "Additional investigation required due to suspicious sensor readings."
	}
	return alert
}
