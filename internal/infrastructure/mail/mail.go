// Package mail delivers notification mails through a configurable transport.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Mail is one outbound notification. ID is assigned once when the mail is
// queued and identifies it across redeliveries.
type Mail struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers a single mail.
type Sender interface {
	Send(ctx context.Context, m Mail) error
}

// Transport names accepted by NewSender.
const (
	TransportSMTP  = "smtp"
	TransportKafka = "kafka"
	TransportLog   = "log"
)

// Options configures the transport selected by NewSender.
type Options struct {
	Transport string
	SMTP      SMTPConfig
	Kafka     KafkaConfig
}

// NewSender builds the sender for opts.Transport. The log transport is used
// when none is set.
func NewSender(opts Options, logger zerolog.Logger) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Transport)) {
	case TransportSMTP:
		s, err := NewSMTPSender(opts.SMTP)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TransportKafka:
		s, err := NewKafkaSender(opts.Kafka)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TransportLog, "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", opts.Transport)
	}
}

// LogSender writes mails to the log instead of delivering them.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, m Mail) error {
	s.logger.Info().
		Str("to", m.To).
		Str("subject", m.Subject).
		Str("body", m.Body).
		Msg("mail")
	return nil
}
