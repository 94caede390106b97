package mailer

import (
	"context"
	"fmt"
	"log"
	"time"
)

// LogOnly renders templates but writes them to the process log instead of
// delivering them. Used in development when no SMTP relay is configured.
type LogOnly struct{}

func NewLogOnly() *LogOnly {
	return &LogOnly{}
}

func (l *LogOnly) Send(_ context.Context, to, templateName string, data map[string]any) (string, error) {
	subject, _, err := Render(templateName, data)
	if err != nil {
		return "", err
	}

	id := fmt.Sprintf("log-%d", time.Now().UnixNano())
	log.Printf("[MAIL] [INFO] (not delivered) to=%s template=%s subject=%q", to, templateName, subject)
	return id, nil
}
