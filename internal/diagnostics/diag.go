// Package diagnostics explains why a board could not be opened.
package diagnostics

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/led"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `yaml:"severity"`
	Code           string         `yaml:"code"`
	Summary        string         `yaml:"summary"`
	Detail         string         `yaml:"detail,omitempty"`
	LikelyCauses   []string       `yaml:"likely_causes,omitempty"`
	SuggestedFixes []string       `yaml:"suggested_fixes,omitempty"`
	Evidence       map[string]any `yaml:"evidence,omitempty"`
}

// ForOpen describes a failure to open the named driver.
func ForOpen(driver string, err error) Diagnostic {
	d := Diagnostic{
		Severity: Err,
		Code:     "open_failed",
		Summary:  "could not open the " + driver + " board",
		Detail:   err.Error(),
		Evidence: map[string]any{"driver": driver},
	}
	switch {
	case errors.Is(err, led.ErrUnknownPin):
		d.Code = "unknown_pin"
		d.LikelyCauses = []string{"pin name misspelled", "host drivers not loaded"}
		d.SuggestedFixes = []string{"use names like GPIO17", "check the pins list in the config"}
	case errors.Is(err, layout.ErrInvalidLightCount), errors.Is(err, led.ErrPinCount):
		d.Code = "light_count"
		d.LikelyCauses = []string{"pins list does not have one entry per light"}
		d.SuggestedFixes = []string{"list 26 pins, the center first"}
	case strings.Contains(err.Error(), "host init"):
		d.Code = "host_init"
		d.LikelyCauses = []string{"not running on a supported board", "missing permissions on /dev/gpiomem"}
		d.SuggestedFixes = []string{"run as root or add the user to the gpio group", "try -driver sim"}
	default:
		d.LikelyCauses = []string{"hardware not connected"}
		d.SuggestedFixes = []string{"try -driver screen or -driver sim"}
	}
	return d
}

// Log writes d as one structured event.
func (d Diagnostic) Log(l *zerolog.Logger) {
	ev := l.Warn()
	if d.Severity == Err {
		ev = l.Error()
	}
	ev.Str("code", d.Code).
		Str("detail", d.Detail).
		Strs("causes", d.LikelyCauses).
		Strs("fixes", d.SuggestedFixes).
		Fields(d.Evidence).
		Msg(d.Summary)
}
