// Package notify is the escalation sink for scheduled-job failures that
// exhausted their retries.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier delivers a structured alert to the operations channel.
type Notifier interface {
	Alert(title string, fields map[string]string) error
}

// LogNotifier writes alerts to the log. Used when no Slack token is
// configured, so escalations are never silently dropped.
type LogNotifier struct {
	Logger *zap.SugaredLogger
}

func (n *LogNotifier) Alert(title string, fields map[string]string) error {
	args := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		args = append(args, k, v)
	}
	n.Logger.Errorw("ALERT: "+title, args...)
	return nil
}

// MemoryNotifier records alerts in memory for tests.
type MemoryNotifier struct {
	mu     sync.Mutex
	alerts []RecordedAlert
}

type RecordedAlert struct {
	Title  string
	Fields map[string]string
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Alert(title string, fields map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, RecordedAlert{Title: title, Fields: fields})
	return nil
}

// Alerts returns a copy of everything recorded so far.
func (n *MemoryNotifier) Alerts() []RecordedAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]RecordedAlert(nil), n.alerts...)
}
