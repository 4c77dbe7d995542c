package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SMSChannel posts alerts to an HTTP SMS gateway.
type SMSChannel struct {
	client     *resty.Client
	url        string
	recipients []string
	sender     string
}

type smsRequest struct {
	From    string   `json:"from,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// NewSMSChannel builds a gateway client. The API key, when set, is sent as a bearer token.
func NewSMSChannel(gatewayURL, apiKey, sender string, recipients []string, timeout time.Duration) (*SMSChannel, error) {
	if gatewayURL == "" {
		return nil, errors.New("sms gateway_url is required")
	}
	if len(recipients) == 0 {
		return nil, errors.New("sms recipients are required")
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &SMSChannel{client: client, url: gatewayURL, recipients: recipients, sender: sender}, nil
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Send(ctx context.Context, title, message string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(smsRequest{From: c.sender, To: c.recipients, Subject: title, Text: title + ": " + message}).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	return nil
}
