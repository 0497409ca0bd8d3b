package health

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"attendform/internal/utils/logger"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSessions int

func (n fixedSessions) Len() int { return int(n) }

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name             string
		sessions         int
		expectedStatus   string
		expectedSessions int
	}{
		{
			name:             "health check returns OK",
			expectedStatus:   "OK",
			expectedSessions: 0,
		},
		{
			name:             "reports open sessions",
			sessions:         3,
			expectedStatus:   "OK",
			expectedSessions: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := NewHandler(fixedSessions(tt.sessions), logger.Discard(), huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedStatus, output.Body.Status)
			assert.Equal(t, tt.expectedSessions, output.Body.Sessions)
		})
	}
}

func TestHandler_Route(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fixedSessions(1), logger.Discard(), nil).SetupRoutes(api)

	resp := api.Get("/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, Response{Status: "OK", Sessions: 1}, body)
}
