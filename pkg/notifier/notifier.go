// Package notifier provides run completion notifications
package notifier

import (
	"fmt"
	"time"

	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/gen2brain/beeep"
)

// RunNotifier sends desktop notifications when a pipeline run finishes
type RunNotifier struct {
	enabled  bool
	pipeline string
	logger   logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled  bool
	Pipeline string
}

// New creates a new run notifier
func New(config Config, log logger.Logger) *RunNotifier {
	return &RunNotifier{
		enabled:  config.Enabled,
		pipeline: config.Pipeline,
		logger:   log,
	}
}

// NotifyRunSucceeded notifies that a pipeline run completed successfully
func (n *RunNotifier) NotifyRunSucceeded(steps int, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "✅ Pipeline Succeeded"
	message := fmt.Sprintf("%s: %d step(s) in %s", n.pipeline, steps, formatDuration(duration))

	n.sendNotification(title, message)
}

// NotifyRunFailed notifies that a pipeline run halted at a failed step
func (n *RunNotifier) NotifyRunFailed(stepName string, err error) {
	if !n.enabled {
		return
	}

	title := "❌ Pipeline Failed"
	message := fmt.Sprintf("%s: step %q failed: %v", n.pipeline, stepName, err)

	n.sendNotification(title, message)
}

func (n *RunNotifier) sendNotification(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil && n.logger != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
