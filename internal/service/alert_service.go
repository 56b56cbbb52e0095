package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
)

// Notifier receives the operator-facing notification emitted after every
// lifecycle transition.
type Notifier interface {
	Notify(title, body string)
}

// LogNotifier writes notifications to the service log. The dashboard UI
// subscribes to the same messages as toasts.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(title, body string) {
	n.Logger.Info("notification", zap.String("title", title), zap.String("body", body))
}

// CaseCreator materializes a case from an escalated alert.
type CaseCreator interface {
	CreateFromAlert(ctx context.Context, alert domain.Alert) (*domain.Case, error)
}

// AlertService owns the alert lifecycle: active alerts move to investigation,
// investigated or escalated alerts close, closed alerts can be reopened back
// into investigation. Transitions on unknown ids are silent no-ops.
type AlertService struct {
	repo     repository.AlertRepository
	notifier Notifier
	cases    CaseCreator
	logger   *zap.Logger

	mu       sync.Mutex
	expanded map[int64]bool
}

func NewAlertService(repo repository.AlertRepository, notifier Notifier, cases CaseCreator, logger *zap.Logger) *AlertService {
	return &AlertService{
		repo:     repo,
		notifier: notifier,
		cases:    cases,
		logger:   logger,
		expanded: make(map[int64]bool),
	}
}

// Ingest stores a new alert from a feed and returns it with its assigned id.
func (s *AlertService) Ingest(alert domain.Alert) domain.Alert {
	if alert.Status == "" {
		alert.Status = domain.AlertStatusActive
	}
	stored := s.repo.Insert(alert)
	s.logger.Debug("alert ingested",
		zap.Int64("alert_id", stored.ID),
		zap.String("alert_type", stored.AlertType),
		zap.String("severity", string(stored.Severity)),
	)
	return stored
}

// All returns every alert in insertion order.
func (s *AlertService) All() []domain.Alert {
	return s.repo.List()
}

// Get returns a single alert by id.
func (s *AlertService) Get(id int64) (domain.Alert, bool) {
	return s.repo.Get(id)
}

// Filtered returns the alerts whose status matches the tab and, when query is
// non-empty, whose alert type, policy number, assignee or location contains
// the query case-insensitively. Results keep insertion order.
func (s *AlertService) Filtered(tab domain.AlertTab, query string) []domain.Alert {
	status, ok := tab.Status()
	if !ok {
		return nil
	}

	q := strings.ToLower(query)

	var out []domain.Alert
	for _, alert := range s.repo.List() {
		if alert.Status != status {
			continue
		}
		if q != "" && !matchesQuery(alert, q) {
			continue
		}
		out = append(out, alert)
	}
	return out
}

func matchesQuery(alert domain.Alert, q string) bool {
	return strings.Contains(strings.ToLower(alert.AlertType), q) ||
		strings.Contains(strings.ToLower(alert.PolicyNumber), q) ||
		strings.Contains(strings.ToLower(alert.AssignedTo), q) ||
		strings.Contains(strings.ToLower(alert.Location), q)
}

// MoveToInvestigation transitions an alert to the investigation channel.
func (s *AlertService) MoveToInvestigation(id int64) {
	if !s.repo.SetStatus(id, domain.AlertStatusInvestigation) {
		s.logger.Debug("investigate: no such alert", zap.Int64("alert_id", id))
		return
	}
	s.notifier.Notify(
		"Alert moved to investigation",
		fmt.Sprintf("Alert #%d has been moved to the investigation channel.", id),
	)
}

// Close closes an alert. Closing an already closed alert is a harmless
// repeat; the status stays closed.
func (s *AlertService) Close(id int64) {
	if !s.repo.SetStatus(id, domain.AlertStatusClosed) {
		s.logger.Debug("close: no such alert", zap.Int64("alert_id", id))
		return
	}
	s.notifier.Notify("Alert closed", fmt.Sprintf("Alert #%d has been closed.", id))
}

// Reopen moves a closed alert back into investigation. Alerts in any other
// state are left untouched.
func (s *AlertService) Reopen(id int64) {
	if !s.repo.SetStatus(id, domain.AlertStatusInvestigation, domain.AlertStatusClosed) {
		s.logger.Debug("reopen: alert missing or not closed", zap.Int64("alert_id", id))
		return
	}
	s.notifier.Notify(
		"Alert reopened",
		fmt.Sprintf("Alert #%d has been reopened for investigation.", id),
	)
}

// CreateCase escalates an alert to a case and closes it regardless of its
// prior status. The alert is only closed once case creation succeeded. A nil
// case with nil error means the alert id is unknown.
func (s *AlertService) CreateCase(ctx context.Context, id int64) (*domain.Case, error) {
	alert, ok := s.repo.Get(id)
	if !ok {
		s.logger.Debug("create case: no such alert", zap.Int64("alert_id", id))
		return nil, nil
	}

	created, err := s.cases.CreateFromAlert(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("create case from alert %d: %w", id, err)
	}

	s.repo.SetStatus(id, domain.AlertStatusClosed)
	s.notifier.Notify(
		"Case created",
		fmt.Sprintf("Case created from alert #%d. Alert has been closed.", id),
	)
	return created, nil
}

// ToggleExpanded flips the detail-row expansion state for an alert. This is
// pure presentation state keyed by alert id; it never touches the lifecycle.
func (s *AlertService) ToggleExpanded(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[id] = !s.expanded[id]
	return s.expanded[id]
}

// Expanded reports the current expansion state for an alert.
func (s *AlertService) Expanded(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[id]
}
