package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/conveyor/conveyor/pkg/logger"
)

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("debug", &buf)

	log.Info("pipeline started")
	log.Warn("results file already exists")
	log.Error("step failed")
	log.Debug("resolved 4 steps")

	out := buf.String()
	for _, want := range []string{
		"INFO: pipeline started",
		"WARN: results file already exists",
		"ERROR: step failed",
		"DEBUG: resolved 4 steps",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("warn", &buf)

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("low level messages leaked:\n%s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing:\n%s", out)
	}
}

func TestLoggerWithStep(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.WithStep("metadata").Info("running step")

	out := buf.String()
	if !strings.Contains(out, "[metadata] running step") {
		t.Errorf("missing step prefix:\n%s", out)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Info("step succeeded", logger.WithField("duration", "2s"))

	out := buf.String()
	if !strings.Contains(out, "duration=2s") {
		t.Errorf("missing structured field:\n%s", out)
	}
}

func TestLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("chatty", &buf)

	log.Debug("hidden at default level")
	log.Info("shown at default level")

	out := buf.String()
	if strings.Contains(out, "hidden at default level") {
		t.Errorf("debug leaked at default level:\n%s", out)
	}
	if !strings.Contains(out, "shown at default level") {
		t.Errorf("info missing at default level:\n%s", out)
	}
}
