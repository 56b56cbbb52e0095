package repository

import "github.com/dzangaro/miti/internal/domain"

// AlertRepository owns the alert collection. Alerts are appended by the
// ingestion feed and mutated only via SetStatus; nothing is ever removed.
// Implementations assign ids and must preserve insertion order in List.
type AlertRepository interface {
	// Insert stores the alert, assigns its id and returns it.
	Insert(alert domain.Alert) domain.Alert

	// Get returns a copy of the alert, or false when the id is unknown.
	Get(id int64) (domain.Alert, bool)

	// List returns copies of every alert in insertion order.
	List() []domain.Alert

	// SetStatus moves the alert to status. When onlyFrom is non-empty the
	// transition applies only if the current status is one of those values.
	// It returns false when the id is unknown or the guard did not match.
	SetStatus(id int64, status domain.AlertStatus, onlyFrom ...domain.AlertStatus) bool
}
