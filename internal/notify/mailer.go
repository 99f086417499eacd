package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ayusman/vigil/internal/detect"
)

// Mailer sends detection alerts by email over SMTP with STARTTLS.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	to       string
}

// NewMailer creates a Mailer. host and port address the SMTP server; from and
// password authenticate the sender; to is the alert recipient.
func NewMailer(host string, port int, from, password, to string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		to:       to,
	}
}

// Notify sends one alert email for the given detection.
func (m *Mailer) Notify(result detect.DetectionResult) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{m.to}, m.message(result)); err != nil {
		return fmt.Errorf("failed to send alert mail: %w", err)
	}
	return nil
}

// message renders the alert as an RFC 5322 mail message.
func (m *Mailer) message(result detect.DetectionResult) []byte {
	when := result.Timestamp.Format("2006-01-02 15:04:05")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", m.to)
	fmt.Fprintf(&b, "Subject: Motion Detected!\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Motion was detected by the camera at %s.\r\n", when)
	fmt.Fprintf(&b, "\r\nNumber of objects detected: %d\r\n", result.Count)
	for i, region := range result.Regions {
		box := region.Bounds
		fmt.Fprintf(&b, "  object %d: position (%d,%d) size %dx%d, %d px\r\n",
			i+1, box.Min.X, box.Min.Y, box.Dx(), box.Dy(), region.Area)
	}
	return []byte(b.String())
}
