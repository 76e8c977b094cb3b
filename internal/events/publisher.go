// Package events publishes prebuild run outcomes to NATS so external tooling
// (dashboards, chat notifiers) can react to gate failures without polling.
// Publishing is optional: an empty URL yields a no-op publisher.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitebuilder/internal/prebuild"
)

// DefaultSubject is used when the watch config leaves the subject empty.
const DefaultSubject = "sitebuilder.prebuild.runs"

// RunEvent is the wire payload for one finished prebuild run.
type RunEvent struct {
	RunID       string    `json:"run_id"`
	ProjectPath string    `json:"project_path"`
	Commit      string    `json:"commit,omitempty"`
	Outcome     string    `json:"outcome"`
	FatalReason string    `json:"fatal_reason,omitempty"`
	IssueCount  int       `json:"issue_count"`
	StartedAt   time.Time `json:"started_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// Publisher emits run events. The zero value is a no-op.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect creates a publisher attached to the given NATS server. An empty URL
// returns a disabled publisher and no error.
func Connect(url, subject string) (*Publisher, error) {
	if url == "" {
		return &Publisher{}, nil
	}
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("sitebuilder"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", url, "subject", subject)
	return &Publisher{conn: conn, subject: subject}, nil
}

// Enabled reports whether the publisher has a live connection.
func (p *Publisher) Enabled() bool {
	return p != nil && p.conn != nil
}

// PublishRun emits an event for a finished prebuild run. No-op when disabled.
func (p *Publisher) PublishRun(report *prebuild.Report) error {
	if !p.Enabled() {
		return nil
	}

	event := RunEvent{
		RunID:       report.ID,
		ProjectPath: report.ProjectPath,
		Commit:      report.Commit,
		Outcome:     string(report.Outcome),
		FatalReason: report.FatalReason,
		IssueCount:  len(report.Issues),
		StartedAt:   report.StartedAt,
		DurationMs:  report.Duration.Milliseconds(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}
	return nil
}

// Close drains and closes the connection. No-op when disabled.
func (p *Publisher) Close() {
	if !p.Enabled() {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
