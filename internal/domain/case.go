package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus tracks the follow-up workflow of an investigative case.
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "Open"
	CaseStatusInProgress CaseStatus = "In Progress"
	CaseStatusResolved   CaseStatus = "Resolved"
)

// Case is an investigative record materialized from an escalated alert.
// ExternalID is the human-facing reference (CASE-0001 style) used by
// underwriters and agents.
type Case struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ExternalID   string     `json:"external_id" db:"external_id"`
	AlertID      int64      `json:"alert_id" db:"alert_id"`
	SensorType   string     `json:"sensor_type" db:"sensor_type"`
	RiskType     string     `json:"risk_type" db:"risk_type"`
	Severity     Severity   `json:"severity" db:"severity"`
	Location     string     `json:"location" db:"location"`
	PolicyNumber string     `json:"policy_number" db:"policy_number"`
	Status       CaseStatus `json:"status" db:"status"`
	AssignedTo   string     `json:"assigned_to" db:"assigned_to"`
	InsuredName  string     `json:"insured_name" db:"insured_name"`
	Coverage     string     `json:"coverage" db:"coverage"`
	Underwriter  string     `json:"underwriter" db:"underwriter"`
	Agent        string     `json:"agent" db:"agent"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// CaseNote is a free-text annotation on a case.
type CaseNote struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CaseID    uuid.UUID `json:"case_id" db:"case_id"`
	Content   string    `json:"content" db:"content"`
	Author    string    `json:"author" db:"author"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
