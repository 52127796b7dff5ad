package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"Traxovo/Reports"
)

// Config holds SMTP delivery settings, loaded from the environment.
type Config struct {
	SMTPServer   string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TLSEnabled   bool
	SkipTLSCheck bool
}

// Message is a single outbound email.
type Message struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
	IsHTML  bool
}

// ConfigFromEnv reads SMTP settings. Returns false when no server is
// configured, which disables delivery.
func ConfigFromEnv() (Config, bool) {
	server := os.Getenv("SMTP_SERVER")
	if server == "" {
		return Config{}, false
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return Config{
		SMTPServer:   server,
		SMTPPort:     port,
		Username:     os.Getenv("SMTP_USERNAME"),
		Password:     os.Getenv("SMTP_PASSWORD"),
		FromEmail:    os.Getenv("SMTP_FROM_EMAIL"),
		FromName:     os.Getenv("SMTP_FROM_NAME"),
		TLSEnabled:   os.Getenv("SMTP_TLS") == "true",
		SkipTLSCheck: os.Getenv("SMTP_SKIP_TLS_CHECK") == "true",
	}, true
}

// RunSummaryMessage renders a reconciliation run into a plain-text
// notification for the distribution list.
func RunSummaryMessage(out *Reports.RunOutput, recipients []string) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Attendance reconciliation run %s\r\n", out.RunID)
	fmt.Fprintf(&body, "Generated: %s\r\n", out.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&body, "Zone rules: %s\r\n\r\n", out.ZoneSource)
	fmt.Fprintf(&body, "Merged driver-days: %d\r\n", out.Stats.MergedDays)
	for status, count := range out.StatusCounts() {
		fmt.Fprintf(&body, "  %s: %d\r\n", status, count)
	}
	fmt.Fprintf(&body, "Discrepancies flagged: %d\r\n", len(out.Discrepancies))
	if len(out.SkippedFiles) > 0 {
		fmt.Fprintf(&body, "Skipped inputs: %d\r\n", len(out.SkippedFiles))
	}

	return Message{
		To:      recipients,
		Subject: fmt.Sprintf("Attendance report %s", out.GeneratedAt.Format("2006-01-02")),
		Body:    body.String(),
	}
}

// Send delivers a message using the provided configuration.
func Send(config Config, message Message) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", config.FromName, config.FromEmail)
	headers["To"] = strings.Join(message.To, ", ")
	headers["Subject"] = message.Subject

	if len(message.CC) > 0 {
		headers["Cc"] = strings.Join(message.CC, ", ")
	}

	if message.IsHTML {
		headers["MIME-Version"] = "1.0"
		headers["Content-Type"] = "text/html; charset=UTF-8"
	} else {
		headers["Content-Type"] = "text/plain; charset=UTF-8"
	}

	var messageBody strings.Builder
	for key, value := range headers {
		messageBody.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	messageBody.WriteString("\r\n")
	messageBody.WriteString(message.Body)

	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)

	var recipients []string
	recipients = append(recipients, message.To...)
	recipients = append(recipients, message.CC...)
	recipients = append(recipients, message.BCC...)

	serverAddr := fmt.Sprintf("%s:%d", config.SMTPServer, config.SMTPPort)

	if !config.TLSEnabled {
		return smtp.SendMail(serverAddr, auth, config.FromEmail, recipients, []byte(messageBody.String()))
	}

	tlsConfig := &tls.Config{
		ServerName:         config.SMTPServer,
		InsecureSkipVerify: config.SkipTLSCheck,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %v", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %v", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %v", err)
	}
	if err = client.Mail(config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %v", err)
	}
	for _, recipient := range recipients {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to add recipient %s: %v", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %v", err)
	}
	if _, err = w.Write([]byte(messageBody.String())); err != nil {
		return fmt.Errorf("failed to write email body: %v", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %v", err)
	}

	return client.Quit()
}
