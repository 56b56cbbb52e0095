package domain

// Severity classifies how urgent a sensor alert is.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// AlertStatus represents the lifecycle state of an alert
type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "active"
	AlertStatusInvestigation AlertStatus = "investigation"
	AlertStatusClosed        AlertStatus = "closed"
)

// AlertTab identifies one of the triage tabs in the alerts view. Each tab
// shows exactly one lifecycle status.
type AlertTab string

const (
	AlertTabMain          AlertTab = "main"
	AlertTabInvestigation AlertTab = "investigation"
	AlertTabClosed        AlertTab = "closed"
)

// Status maps a tab to the lifecycle status it displays. The second return
// value is false for unknown tabs.
func (t AlertTab) Status() (AlertStatus, bool) {
	switch t {
	case AlertTabMain:
		return AlertStatusActive, true
	case AlertTabInvestigation:
		return AlertStatusInvestigation, true
	case AlertTabClosed:
		return AlertStatusClosed, true
	}
	return "", false
}

// Alert is a single reported sensor/risk event. Alerts are created by an
// ingestion feed, mutated only through lifecycle transitions and never
// deleted (closed is terminal but reopenable).
type Alert struct {
	ID           int64       `json:"id"`
	Severity     Severity    `json:"severity"`
	AlertType    string      `json:"alert_type"`
	Location     string      `json:"location"`
	Timestamp    string      `json:"timestamp"`
	PolicyNumber string      `json:"policy_number"`
	AssignedTo   string      `json:"assigned_to"`
	ContactPhone string      `json:"contact_phone"`
	Source       string      `json:"source"`
	Status       AlertStatus `json:"status"`
	Notes        string      `json:"notes,omitempty"`
}
