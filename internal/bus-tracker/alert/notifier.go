// Package alert posts a Discord message when departure fetching starts
// failing and when it recovers.
package alert

import (
	"context"
	"sync"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

// Sender delivers one alert
type Sender interface {
	SendAlert(ctx context.Context, level, title, description string, fields map[string]interface{}) error
}

// Notifier alerts on healthy/failing transitions only
type Notifier struct {
	sender  Sender
	logger  logger.Logger
	mu      sync.Mutex
	failing bool
}

// NewNotifier creates a Notifier that starts in the healthy state
func NewNotifier(sender Sender, log logger.Logger) *Notifier {
	return &Notifier{sender: sender, logger: log}
}

// Publish inspects a fetch result and sends an alert when the health of
// the feed changed
func (n *Notifier) Publish(ctx context.Context, stop models.Stop, res models.FetchResult) error {
	n.mu.Lock()
	wasFailing := n.failing
	n.failing = !res.Valid
	n.mu.Unlock()

	switch {
	case !res.Valid && !wasFailing:
		fields := map[string]interface{}{
			"stop": stop.Name,
		}
		if res.Err != nil {
			fields["kind"] = string(res.Err.Kind)
		}
		n.logger.Info("Sending fetch failure alert", "stop_id", stop.ID)
		return n.sender.SendAlert(ctx, "ERROR", "Departure fetch failing", res.ErrorText(), fields)

	case res.Valid && wasFailing:
		n.logger.Info("Sending fetch recovery alert", "stop_id", stop.ID)
		return n.sender.SendAlert(ctx, "OK", "Departure fetch recovered", stop.Name, map[string]interface{}{
			"departures": len(res.Departures),
		})
	}
	return nil
}
