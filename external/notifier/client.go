// Package notifier delivers alerts to an external webhook endpoint.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/epiwatch/epiwatch-api/schema"
)

// WebhookClient posts alert documents to a configured endpoint. It
// implements pipeline.Notifier.
type WebhookClient struct {
	endpoint string
	token    string
	client   *http.Client
}

func New(endpoint, token string) *WebhookClient {
	return &WebhookClient{
		endpoint: endpoint,
		token:    token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *WebhookClient) EnqueueAlert(alert schema.Alert) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(map[string]interface{}{
		"type":  "epidemic-alert",
		"alert": alert,
	}); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", w.endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", w.token))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		if dump, err := httputil.DumpResponse(resp, true); err == nil {
			log.WithFields(log.Fields{
				"prefix": "notifier",
				"resp":   string(dump),
			}).Warn("webhook rejected alert")
		}
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
