package services_test

import (
	"testing"
	"time"

	"workdesk/backend/internal/models"
	"workdesk/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSessionDefaultsToToday(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewSessionService(time.UTC)

	session, err := svc.StartSession(db, services.SessionInput{Device: str("laptop")})
	require.NoError(t, err)

	assert.Equal(t, svc.Today(), session.Date)
	assert.True(t, session.Running())
	require.NotNil(t, session.Device)
	assert.Equal(t, "laptop", *session.Device)
}

func TestStartSessionExplicitDate(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewSessionService(time.UTC)

	session, err := svc.StartSession(db, services.SessionInput{Date: str("2025-04-01")})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", session.Date)
}

func TestListSessionsByDate(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewSessionService(time.UTC)

	_, err := svc.StartSession(db, services.SessionInput{Date: str("2025-04-01")})
	require.NoError(t, err)
	_, err = svc.StartSession(db, services.SessionInput{Date: str("2025-04-01")})
	require.NoError(t, err)
	_, err = svc.StartSession(db, services.SessionInput{Date: str("2025-04-02")})
	require.NoError(t, err)

	sessions, err := svc.ListSessions(db, "2025-04-01")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestStopSession(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewSessionService(time.UTC)

	started, err := svc.StartSession(db, services.SessionInput{})
	require.NoError(t, err)

	stopped, err := svc.StopSession(db, started.ID)
	require.NoError(t, err)
	assert.False(t, stopped.Running())
	require.NotNil(t, stopped.DurationMin)
	assert.GreaterOrEqual(t, *stopped.DurationMin, 0)

	_, err = svc.StopSession(db, started.ID)
	assert.ErrorIs(t, err, services.ErrSessionAlreadyStopped)
}

func TestStopSessionNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewSessionService(time.UTC)

	_, err := svc.StopSession(db, uuid.Must(uuid.NewV4()))
	assert.Error(t, err)
}

func TestHealthLogLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewHealthLogService()

	created, err := svc.CreateLog(db, "2025-04-01", services.HealthLogInput{
		Weight:  str("81.5"),
		Morning: str("run 5k"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, created.Status)

	updated, err := svc.UpdateLog(db, created.ID, services.HealthLogInput{
		Gym: str("push day"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Weight)
	assert.Equal(t, "81.5", *updated.Weight, "omitted fields keep their values")
	require.NotNil(t, updated.Gym)
	assert.Equal(t, "push day", *updated.Gym)

	deleted, err := svc.DeleteLog(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisabled, deleted.Status)

	active, err := svc.ListLogs(db, "2025-04-01", models.StatusActive, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListLogs(db, "2025-04-01", models.StatusActive, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHealthLogNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewHealthLogService()

	_, err := svc.UpdateLog(db, uuid.Must(uuid.NewV4()), services.HealthLogInput{})
	assert.Error(t, err)
	_, err = svc.DeleteLog(db, uuid.Must(uuid.NewV4()))
	assert.Error(t, err)
}
