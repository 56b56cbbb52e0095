// Package memory holds the in-process alert store. The alert collection is
// deliberately not database-backed: it is seeded from the ingestion feed at
// startup and lives for the lifetime of the process.
package memory

import (
	"sync"

	"github.com/dzangaro/miti/internal/domain"

	"github.com/dzangaro/miti/internal/repository"
)

type alertStore struct {
	mu     sync.RWMutex
	alerts []domain.Alert
	index  map[int64]int
	nextID int64
}

func NewAlertRepository() repository.AlertRepository {
	return &alertStore{
		index:  make(map[int64]int),
		nextID: 1,
	}
}

func (s *alertStore) Insert(alert domain.Alert) domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = s.nextID
	s.nextID++

	s.index[alert.ID] = len(s.alerts)
	s.alerts = append(s.alerts, alert)
	return alert
}

func (s *alertStore) Get(id int64) (domain.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Alert{}, false
	}
	return s.alerts[i], true
}

func (s *alertStore) List() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *alertStore) SetStatus(id int64, status domain.AlertStatus, onlyFrom ...domain.AlertStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	if len(onlyFrom) > 0 {
		matched := false
		for _, from := range onlyFrom {
			if s.alerts[i].Status == from {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	s.alerts[i].Status = status
	return true
}
