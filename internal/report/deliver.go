package report

import (
	"context"
	"net"
	"strconv"
	"time"

	retry "github.com/codeGROOVE-dev/retry-go"
	"github.com/jordan-wright/email"
)

// Retry configuration for report delivery. Remote remediation operations are
// never retried, but losing a finished report to a transient SMTP hiccup
// would waste the whole run.
const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// Deliverer dispatches a rendered report.
type Deliverer interface {
	Deliver(ctx context.Context, body, subject, recipient string) error
}

// SMTPDeliverer sends the HTML summary through a mail relay.
type SMTPDeliverer struct {
	Host string
	Port int
	From string
}

// Deliver sends the report, retrying with bounded backoff.
func (d *SMTPDeliverer) Deliver(_ context.Context, body, subject, recipient string) error {
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return retry.Do(func() error {
		msg := email.NewEmail()
		msg.From = d.From
		msg.To = []string{recipient}
		msg.Subject = subject
		msg.HTML = []byte(body)
		return msg.Send(addr, nil)
	}, retry.Attempts(maxRetries), retry.Delay(initialBackoff), retry.MaxDelay(maxBackoff))
}

// NopDeliverer serves the mail-suppress flag and tests.
type NopDeliverer struct{}

// Deliver discards the report.
func (NopDeliverer) Deliver(context.Context, string, string, string) error {
	return nil
}
