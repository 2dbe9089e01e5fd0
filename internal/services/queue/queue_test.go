package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJob(t *testing.T) {
	job, err := decodeJob([]byte(`{"id":"job-1","session_id":"sess-1","created_at":"2026-01-01T00:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, "sess-1", job.SessionID)

	_, err = decodeJob([]byte(`{"id":"job-2"}`))
	assert.Error(t, err)

	_, err = decodeJob([]byte(`not json`))
	assert.Error(t, err)
}

func TestHealthCheckWithoutConnection(t *testing.T) {
	q := &QueueService{}
	assert.Equal(t, "unhealthy: connection closed", q.HealthCheck())
}
