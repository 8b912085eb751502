package notifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epiwatch/epiwatch-api/schema"
)

func TestEnqueueAlert(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "secret")
	err := client.EnqueueAlert(schema.Alert{
		RegionID: "IN-MH",
		Date:     "2024-07-15",
		Disease:  "DENGUE",
		Reason:   schema.AlertReasonThresholdExceeded,
		Score:    0.91,
		Level:    schema.RiskLevelCritical,
	})
	assert.NoError(t, err)
	assert.Equal(t, "epidemic-alert", received["type"])
}

func TestEnqueueAlertRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "")
	err := client.EnqueueAlert(schema.Alert{RegionID: "IN-MH"})
	assert.Error(t, err)
}
