package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/raytag/endpoint/logging"
)

// ConsoleSink renders events to a serial/terminal stream the way an
// endpoint's own USB-serial console does: one line per event, category
// up front so an operator tailing a single station can tell a combat
// hit apart from a peer-link blip at a glance.
type ConsoleSink struct {
	logger   *log.Logger
	useColor bool
}

// NewConsole constructs the console sink the station boots with (spec
// §4: operator-visible logging). cfg.UseColor controls whether severity
// is wrapped in an ANSI color, the same visual cue the admin CLI's
// status view gives severities; a console sink stays off by default
// since a serial terminal or log file has no escape-code support to
// assume.
func NewConsole(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	return &ConsoleSink{logger: log.New(w, "", log.LstdFlags), useColor: cfg.UseColor}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	payload := formatPayload(event.Payload)
	targets := formatTargets(event.Targets)
	category := event.Category
	if category == "" {
		category = "general"
	}
	s.logger.Printf("[%s] %s tick=%d actor=%s severity=%s%s%s", category, event.Type, event.Tick, formatEntity(event.Actor), s.formatSeverity(event.Severity), targets, payload)
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

// ansiSeverityColor maps a severity to its terminal foreground color
// code (green/yellow/red), skipped entirely when useColor is off.
func ansiSeverityColor(sev logging.Severity) string {
	switch sev {
	case logging.SeverityWarn:
		return "33"
	case logging.SeverityError:
		return "31"
	default:
		return "32"
	}
}

func (s *ConsoleSink) formatSeverity(sev logging.Severity) string {
	label := formatSeverity(sev)
	if !s.useColor {
		return label
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", ansiSeverityColor(sev), label)
}

func formatSeverity(sev logging.Severity) string {
	switch sev {
	case logging.SeverityDebug:
		return "debug"
	case logging.SeverityInfo:
		return "info"
	case logging.SeverityWarn:
		return "warn"
	case logging.SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return fmt.Sprintf(" targets=%s", strings.Join(parts, ","))
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}
