package navigator

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/internal/util"
	"github.com/dustin/go-humanize"
)

// errTooLarge is returned by readFileLimited when a file exceeds its limit
var errTooLarge = errors.New("file exceeds size limit")

// readFileLimited reads name but never more than limit bytes; a file that
// holds more, even one that grew after it was stat'ed, is errTooLarge
func readFileLimited(name string, limit int64) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", name, errTooLarge)
	}
	return data, nil
}

// Resolve returns the image at position index of the current snapshot.
//
// The snapshot generation is loaded once so the lookup and the read refer to
// the same listing even if a scan publishes concurrently. Every failure
// (no such entry, not an image, not a regular file, too large, unreadable)
// is reported as [imgnav.ErrResourceNotFound].
func (n *Navigator) Resolve(index int) (*imgnav.Resource, error) {
	logger := util.GetLogger("Navigator.Resolve")
	snap := n.state.Snapshot()

	p, ok := snap.At(index)
	if !ok {
		logger.Trace().Int("index", index).Msg("No snapshot entry")
		return nil, imgnav.ErrResourceNotFound
	}
	ct, ok := ContentType(p)
	if !ok || snap.IsDirIndex(index) {
		logger.Trace().Int("index", index).Str("path", p).Msg("Not an image")
		return nil, imgnav.ErrResourceNotFound
	}
	info, err := n.stat(p)
	if err != nil || !info.Mode().IsRegular() {
		logger.Debug().Err(err).Str("path", p).Msg("Not a readable regular file")
		return nil, imgnav.ErrResourceNotFound
	}
	if info.Size() > n.cfg.MaxResourceBytes {
		logger.Warn().Str("path", p).Str("size", humanize.Bytes(uint64(info.Size()))).Msg("Image exceeds size limit")
		return nil, imgnav.ErrResourceNotFound
	}
	data, err := n.readFile(p, n.cfg.MaxResourceBytes)
	if err != nil {
		logger.Debug().Err(err).Str("path", p).Msg("Read failed")
		return nil, imgnav.ErrResourceNotFound
	}

	logger.Trace().Uint64("gen", snap.Gen).Int("index", index).Str("path", p).
		Str("size", humanize.Bytes(uint64(len(data)))).Msg("Resolved image")
	return &imgnav.Resource{Path: p, ContentType: ct, Data: data}, nil
}
