package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ankan-42/AUL-logarchive-info/internal/logging"
	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

const (
	logarchiveSuffix = ".logarchive"
	tarGzSuffix      = ".tar.gz"

	// markerDir must exist inside a candidate logarchive for it to be
	// considered valid. Apple unified-logging archives always carry a
	// Persist subdirectory with the tracev3 files.
	markerDir = "Persist"

	tempDirPrefix = "sysdiag_extract_"
)

// ErrNotFound is returned when no valid logarchive exists under a
// searched directory tree.
var ErrNotFound = errors.New("no .logarchive found")

// ErrInvalidInput is returned when the input path is neither a
// logarchive, a directory, nor a compressed sysdiagnose bundle.
var ErrInvalidInput = errors.New("invalid input: must be .logarchive, directory, or .tar.gz")

// Locator resolves a user-supplied path to a logarchive directory,
// extracting compressed sysdiagnose bundles as needed.
type Locator struct {
	logger *logging.Logger
}

// NewLocator creates a Locator
func NewLocator(logger *logging.Logger) *Locator {
	return &Locator{logger: logger.WithComponent("archive")}
}

// Resolve applies the lookup rules in order: a .tar.gz bundle is
// extracted to a fresh temporary directory and searched; a .logarchive
// directory is accepted as-is; any other directory is searched; any
// other input is rejected. The returned ref carries the temporary
// directory, if one was created, so the caller can clean it up.
func (l *Locator) Resolve(path string) (*types.ArchiveRef, error) {
	switch {
	case strings.HasSuffix(path, tarGzSuffix):
		tempDir, err := l.extractTarGz(path)
		if err != nil {
			return nil, err
		}
		found, err := FindLogarchive(tempDir)
		if err != nil {
			return nil, fmt.Errorf("%w in sysdiagnose", err)
		}
		return l.measure(found, tempDir)

	case isDir(path) && strings.HasSuffix(filepath.Base(path), logarchiveSuffix):
		l.logger.Info().Str("path", path).Msg("Logarchive detected")
		return l.measure(path, "")

	case isDir(path):
		found, err := FindLogarchive(path)
		if err != nil {
			return nil, fmt.Errorf("%w in directory", err)
		}
		return l.measure(found, "")

	default:
		return nil, ErrInvalidInput
	}
}

func (l *Locator) measure(path, tempDir string) (*types.ArchiveRef, error) {
	sizeKB, err := DirSizeKB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to measure archive size: %w", err)
	}
	return &types.ArchiveRef{
		Path:    path,
		SizeKB:  sizeKB,
		TempDir: tempDir,
	}, nil
}

// FindLogarchive walks base and returns the first directory whose name
// ends in .logarchive and which contains the Persist marker directory.
func FindLogarchive(base string) (string, error) {
	var found string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || !strings.HasSuffix(d.Name(), logarchiveSuffix) {
			return nil
		}
		if isDir(filepath.Join(path, markerDir)) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", base, err)
	}
	if found == "" {
		return "", ErrNotFound
	}
	return found, nil
}

// DirSizeKB returns the total size of all regular files under path, in
// kilobytes rounded to two decimals.
func DirSizeKB(path string) (float64, error) {
	var total int64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return math.Round(float64(total)/1024*100) / 100, nil
}

// extractTarGz unpacks a sysdiagnose bundle into a fresh temporary
// directory and returns its path.
func (l *Locator) extractTarGz(tarPath string) (string, error) {
	tempDir, err := os.MkdirTemp("", tempDirPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	if err := untarGz(tarPath, tempDir); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", tarPath, err)
	}

	l.logger.Info().Str("dir", tempDir).Msg("Extracted to temporary directory")
	return tempDir, nil
}

func untarGz(tarPath, dest string) error {
	f, err := os.Open(tarPath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		default:
			// Symlinks and specials in a diagnostic capture carry no
			// log data, skip them.
		}
	}
}

// safeJoin rejects entry names that escape the destination directory.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("tar entry escapes destination: %s", name)
	}
	return target, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
