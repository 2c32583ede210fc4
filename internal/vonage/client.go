package vonage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"rcs-gateway/internal/rcs"
)

// DefaultAPIURL is the production Vonage Messages API endpoint.
const DefaultAPIURL = "https://api.nexmo.com/v1/messages"

type Client struct {
	APIURL     string
	HTTPClient *http.Client
}

func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{APIURL: apiURL, HTTPClient: &http.Client{}}
}

// SendResponse is the success body from the Messages API.
type SendResponse struct {
	MessageUUID string `json:"message_uuid"`
	WorkflowID  string `json:"workflow_id"`
}

// APIError is a non-2xx answer from the Messages API. Message carries the
// upstream's own error text verbatim when it supplied one.
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

type errorEnvelope struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Send posts one payload to the Messages API. No retries; a transport
// failure and an upstream rejection both come back as a single error for the
// caller to record against this one message.
func (c *Client) Send(payload *rcs.Payload, authHeader string) (*SendResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.APIURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Vonage API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to call Vonage API: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.Unmarshal(body, &envelope)
		msg := envelope.Title
		if msg == "" {
			msg = envelope.Detail
		}
		if msg == "" {
			msg = "API request failed"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Body: body}
	}

	var out SendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse Vonage API response: %w", err)
	}
	return &out, nil
}
