package archive

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/Ankan-42/AUL-logarchive-info/internal/config"
	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

func tempRef(t *testing.T) *types.ArchiveRef {
	t.Helper()
	dir, err := os.MkdirTemp("", "sysdiag_extract_test_")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return &types.ArchiveRef{Path: dir, TempDir: dir}
}

func newTestCleaner(policy config.CleanupPolicy, stdin string, interactive bool) *Cleaner {
	c := NewCleaner(policy, testLogger())
	c.stdin = strings.NewReader(stdin)
	c.stdout = io.Discard
	c.interactive = func() bool { return interactive }
	return c
}

func TestCleanupPolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      config.CleanupPolicy
		stdin       string
		interactive bool
		wantRemoved bool
	}{
		{
			name:        "always deletes",
			policy:      config.CleanupAlways,
			wantRemoved: true,
		},
		{
			name:        "never keeps",
			policy:      config.CleanupNever,
			wantRemoved: false,
		},
		{
			name:        "ask accepts",
			policy:      config.CleanupAsk,
			stdin:       "y\n",
			interactive: true,
			wantRemoved: true,
		},
		{
			name:        "ask declines",
			policy:      config.CleanupAsk,
			stdin:       "n\n",
			interactive: true,
			wantRemoved: false,
		},
		{
			name:        "ask keeps without terminal",
			policy:      config.CleanupAsk,
			interactive: false,
			wantRemoved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := tempRef(t)
			c := newTestCleaner(tt.policy, tt.stdin, tt.interactive)

			if err := c.Run(ref); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			_, err := os.Stat(ref.TempDir)
			removed := os.IsNotExist(err)
			if removed != tt.wantRemoved {
				t.Errorf("Temp dir removed = %v, want %v", removed, tt.wantRemoved)
			}
		})
	}
}

func TestCleanupNoTempDir(t *testing.T) {
	c := newTestCleaner(config.CleanupAlways, "", false)
	if err := c.Run(&types.ArchiveRef{Path: "/var/db/some.logarchive"}); err != nil {
		t.Errorf("Run() on ref without temp dir should be a no-op, got %v", err)
	}
}
