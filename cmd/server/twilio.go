package main

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/worldofchami/shopassist/pkg/config"
	"go.uber.org/zap"
)

// maxMessageLength is Twilio's body limit.
const maxMessageLength = 1600

// messageSender delivers a text message to a customer.
type messageSender interface {
	IsConfigured() bool
	SendMessage(to, body string) error
}

// TwilioClient sends WhatsApp/SMS messages through the Twilio REST API.
type TwilioClient struct {
	client      *twilio.RestClient
	phoneNumber string
	configured  bool
	logger      *zap.Logger
}

func NewTwilioClient(cfg config.Twilio, logger *zap.Logger) *TwilioClient {
	if !cfg.Configured() {
		return &TwilioClient{configured: false, logger: logger}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioClient{
		client:      client,
		phoneNumber: cfg.From,
		configured:  true,
		logger:      logger,
	}
}

func (t *TwilioClient) IsConfigured() bool {
	return t.configured
}

func (t *TwilioClient) PhoneNumber() string {
	return t.phoneNumber
}

// SendMessage sends body to the given number, truncating it to the Twilio
// limit.
func (t *TwilioClient) SendMessage(to, body string) error {
	if !t.configured {
		return fmt.Errorf("twilio client not configured")
	}

	to = formatPhoneNumber(to)
	from := formatPhoneNumber(t.phoneNumber)
	body = truncateMessage(body)

	t.logger.Debug("sending message",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("length", len(body)),
	)

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func truncateMessage(body string) string {
	runes := []rune(body)
	if len(runes) <= maxMessageLength {
		return body
	}
	return string(runes[:maxMessageLength-3]) + "..."
}

// formatPhoneNumber normalises a number to the WhatsApp E.164 form
// "whatsapp:+<digits>".
func formatPhoneNumber(phone string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "whatsapp:")

	var result strings.Builder
	for _, char := range phone {
		if char >= '0' && char <= '9' || char == '+' {
			result.WriteRune(char)
		}
	}
	phone = result.String()

	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return "whatsapp:" + phone
}
