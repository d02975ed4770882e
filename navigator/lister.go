package navigator

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/internal/util"
	"golang.org/x/text/unicode/norm"
)

// readDirEntries opens name as a directory and returns its unsorted entries.
// A directory that can be opened but only partially read returns what was
// read; only a failure to read anything is an error.
func readDirEntries(name string) ([]os.DirEntry, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil && len(entries) == 0 {
		return nil, err
	}
	if err != nil {
		logger := util.GetLogger("Navigator.readDir")
		logger.Warn().Err(err).Str("dir", name).
			Int("entries", len(entries)).Msg("Directory partially read")
	}
	return entries, nil
}

// parentOf returns the parent of dir, or dir itself at a filesystem root
func parentOf(dir string) string {
	return filepath.Dir(filepath.Clean(dir))
}

// comparePaths orders paths by their NFC form so decomposed names (as some
// filesystems return them) sort next to their composed equivalents. Ties
// fall back to the raw bytes to keep the order total.
func comparePaths(a, b string) int {
	if c := cmp.Compare(norm.NFC.String(a), norm.NFC.String(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// ScanDirectory lists the active path and publishes the result as the new
// snapshot generation.
//
// Subdirectories come first, then files, each sorted independently; index 0
// is the synthetic parent entry. Entries whose metadata cannot be read are
// dropped. If the active path cannot be opened as a directory the error
// wraps [imgnav.ErrDirUnreadable] and the previous snapshot stays published.
func (n *Navigator) ScanDirectory() (*imgnav.Snapshot, error) {
	n.cmdMu.Lock()
	defer n.cmdMu.Unlock()
	return n.scanLocked()
}

func (n *Navigator) scanLocked() (*imgnav.Snapshot, error) {
	logger := util.GetLogger("Navigator.Scan")
	dir := n.state.ActivePath()

	dirEntries, err := n.readDir(dir)
	if err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("Active path is not a readable directory")
		return nil, fmt.Errorf("scan %q: %w: %w", dir, imgnav.ErrDirUnreadable, err)
	}

	dirs := make([]string, 0, len(dirEntries))
	files := make([]string, 0, len(dirEntries))
	skipped := 0
	for _, e := range dirEntries {
		full := filepath.Join(dir, e.Name())
		info, err := n.stat(full)
		if err != nil {
			logger.Trace().Err(err).Str("path", full).Msg("Skipping entry without metadata")
			skipped++
			continue
		}
		if info.IsDir() {
			dirs = append(dirs, full)
		} else {
			files = append(files, full)
		}
	}
	slices.SortFunc(dirs, comparePaths)
	slices.SortFunc(files, comparePaths)

	entries := make([]string, 0, len(dirs)+len(files)+1)
	entries = append(entries, parentOf(dir))
	entries = append(entries, dirs...)
	entries = append(entries, files...)

	snap := n.state.publish(dir, entries, len(dirs)+1)
	logger.Debug().
		Str("dir", dir).
		Uint64("gen", snap.Gen).
		Int("dirs", len(dirs)).
		Int("files", len(files)).
		Int("skipped", skipped).
		Msg("Published directory snapshot")
	return snap, nil
}
