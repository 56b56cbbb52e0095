package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzangaro/miti/internal/domain"
)

func TestInsertAssignsSequentialIDs(t *testing.T) {
	repo := NewAlertRepository()

	a := repo.Insert(domain.Alert{AlertType: "Water Leak", Status: domain.AlertStatusActive})
	b := repo.Insert(domain.Alert{AlertType: "Fire Detection", Status: domain.AlertStatusActive})
	c := repo.Insert(domain.Alert{AlertType: "Gas Leak", Status: domain.AlertStatusActive})

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, int64(3), c.ID)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	repo := NewAlertRepository()

	repo.Insert(domain.Alert{AlertType: "Water Leak", Status: domain.AlertStatusActive})
	repo.Insert(domain.Alert{AlertType: "Fire Detection", Status: domain.AlertStatusActive})
	repo.Insert(domain.Alert{AlertType: "Gas Leak", Status: domain.AlertStatusActive})

	alerts := repo.List()
	require.Len(t, alerts, 3)
	assert.Equal(t, "Water Leak", alerts[0].AlertType)
	assert.Equal(t, "Fire Detection", alerts[1].AlertType)
	assert.Equal(t, "Gas Leak", alerts[2].AlertType)
}

func TestListReturnsCopies(t *testing.T) {
	repo := NewAlertRepository()
	repo.Insert(domain.Alert{AlertType: "Water Leak", Status: domain.AlertStatusActive})

	alerts := repo.List()
	alerts[0].Status = domain.AlertStatusClosed

	stored, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, domain.AlertStatusActive, stored.Status)
}

func TestGetUnknownID(t *testing.T) {
	repo := NewAlertRepository()

	_, ok := repo.Get(99)
	assert.False(t, ok)
}

func TestSetStatus(t *testing.T) {
	repo := NewAlertRepository()
	a := repo.Insert(domain.Alert{AlertType: "Water Leak", Status: domain.AlertStatusActive})

	assert.True(t, repo.SetStatus(a.ID, domain.AlertStatusInvestigation))

	stored, _ := repo.Get(a.ID)
	assert.Equal(t, domain.AlertStatusInvestigation, stored.Status)
}

func TestSetStatusUnknownID(t *testing.T) {
	repo := NewAlertRepository()
	assert.False(t, repo.SetStatus(42, domain.AlertStatusClosed))
}

func TestSetStatusOnlyFromGuard(t *testing.T) {
	repo := NewAlertRepository()
	a := repo.Insert(domain.Alert{AlertType: "Water Leak", Status: domain.AlertStatusActive})

	// Guard does not match the current state, so nothing changes.
	assert.False(t, repo.SetStatus(a.ID, domain.AlertStatusInvestigation, domain.AlertStatusClosed))
	stored, _ := repo.Get(a.ID)
	assert.Equal(t, domain.AlertStatusActive, stored.Status)

	require.True(t, repo.SetStatus(a.ID, domain.AlertStatusClosed))
	assert.True(t, repo.SetStatus(a.ID, domain.AlertStatusInvestigation, domain.AlertStatusClosed))
	stored, _ = repo.Get(a.ID)
	assert.Equal(t, domain.AlertStatusInvestigation, stored.Status)
}
