package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client forwards form submissions to the configured Formspree endpoint. It
// is a pure pass-through: no retries, no queueing; a failure is reported to
// the caller and nothing else happens.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendContact relays a contact-form submission.
func (c *Client) SendContact(name, email, message string) error {
	return c.send(map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	})
}

// SendNewsletter relays a newsletter signup.
func (c *Client) SendNewsletter(email string) error {
	return c.send(map[string]string{
		"email":    email,
		"_subject": "New Newsletter Subscription",
	})
}

func (c *Client) send(payload map[string]string) error {
	if c.endpoint == "" {
		return errors.New("relay endpoint not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode relay payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay rejected submission: %s", resp.Status)
	}
	return nil
}
