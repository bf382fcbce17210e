package sms

import (
	"context"
	"log"
)

// Sender is the delivery port for provider passcodes. The core only requests
// delivery; transport (Twilio etc.) lives behind this interface, and a send
// failure never rolls back an already-committed challenge.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// ConsoleSender logs instead of sending; used in development and tests.
type ConsoleSender struct {
	SenderID string
}

func (s *ConsoleSender) Send(ctx context.Context, phone, message string) error {
	log.Printf("[sms:%s] to=%s %s", s.SenderID, phone, message)
	return nil
}
