// Package render shells out to the OS log-rendering tool to turn a
// logarchive into plain text.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Ankan-42/AUL-logarchive-info/internal/logging"
)

// ErrEmptyOutput is returned when the rendering tool produced no lines.
var ErrEmptyOutput = errors.New("no log output produced")

// Renderer invokes the external log tool with syslog styling and full
// verbosity. The whole invocation is bounded by a single timeout; the
// output is produced in full, not streamed.
type Renderer struct {
	command string
	timeout time.Duration
	logger  *logging.Logger
}

// New creates a Renderer. command is normally "log"; it is configurable
// so tests and wrapper scripts can substitute their own binary.
func New(command string, timeout time.Duration, logger *logging.Logger) *Renderer {
	return &Renderer{
		command: command,
		timeout: timeout,
		logger:  logger.WithComponent("render"),
	}
}

// Render runs `<command> show --archive <path> --style syslog --info
// --debug` and returns stdout split into lines. Timeouts and command
// failures are returned as errors; the caller treats both, and an empty
// result, as fatal for the run.
func (r *Renderer) Render(ctx context.Context, archivePath string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Info().Str("archive", archivePath).Msg("Rendering log output")

	cmd := exec.CommandContext(ctx, r.command,
		"show", "--archive", archivePath,
		"--style", "syslog", "--info", "--debug")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("timeout after %s while reading logarchive %s: %w",
			r.timeout, archivePath, context.DeadlineExceeded)
	}
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", r.command, err,
			strings.TrimSpace(stderr.String()))
	}

	lines := splitLines(stdout.String())
	if len(lines) == 0 {
		return nil, ErrEmptyOutput
	}

	r.logger.Debug().Int("lines", len(lines)).Msg("Render complete")
	return lines, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
