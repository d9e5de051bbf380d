package archive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Ankan-42/AUL-logarchive-info/internal/config"
	"github.com/Ankan-42/AUL-logarchive-info/internal/logging"
	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

// Cleaner decides the fate of the temporary extraction directory at the
// end of a run.
type Cleaner struct {
	policy config.CleanupPolicy
	stdin  io.Reader
	stdout io.Writer
	// interactive reports whether prompting is possible. Defaults to a
	// terminal check on os.Stdin.
	interactive func() bool
	logger      *logging.Logger
}

// NewCleaner creates a Cleaner applying the given policy
func NewCleaner(policy config.CleanupPolicy, logger *logging.Logger) *Cleaner {
	return &Cleaner{
		policy: policy,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		logger: logger.WithComponent("cleanup"),
	}
}

// Run removes or keeps the temporary directory of ref according to the
// policy. With the "ask" policy a y/n confirmation is read from stdin;
// when stdin is not a terminal the directory is kept and a warning is
// logged. A ref without a temporary directory is a no-op.
func (c *Cleaner) Run(ref *types.ArchiveRef) error {
	if ref == nil || ref.TempDir == "" {
		return nil
	}

	remove := false
	switch c.policy {
	case config.CleanupAlways:
		remove = true
	case config.CleanupNever:
	case config.CleanupAsk:
		if !c.interactive() {
			c.logger.Warn().Str("dir", ref.TempDir).
				Msg("stdin is not a terminal, keeping temporary directory")
			return nil
		}
		answer, err := c.confirm(ref.TempDir)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		remove = answer
	}

	if !remove {
		c.logger.Info().Str("dir", ref.TempDir).Msg("Temporary directory kept")
		return nil
	}

	if err := os.RemoveAll(ref.TempDir); err != nil {
		return fmt.Errorf("failed to delete temporary directory: %w", err)
	}
	c.logger.Info().Str("dir", ref.TempDir).Msg("Temporary directory deleted")
	return nil
}

func (c *Cleaner) confirm(dir string) (bool, error) {
	fmt.Fprintf(c.stdout, "Delete the temporary extracted folder %s? (y/n): ", dir)
	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return strings.TrimSpace(strings.ToLower(line)) == "y", nil
}
