package navigator

import (
	"fmt"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/internal/util"
)

// ChangeVolume commits volume index and resets the active path to its root.
// An out of range index silently falls back to volume 0; the returned index
// is the one actually committed. It only fails when no volume exists.
// The snapshot is left untouched until the next scan.
func (n *Navigator) ChangeVolume(index int) (int, error) {
	logger := util.GetLogger("Navigator.ChangeVolume")
	n.cmdMu.Lock()
	defer n.cmdMu.Unlock()

	committed, ok := n.state.selectVolume(index)
	if !ok {
		logger.Warn().Int("requested", index).Msg("No volumes to select")
		return 0, imgnav.ErrNoVolumes
	}
	if committed != index {
		logger.Debug().Int("requested", index).Int("committed", committed).Msg("Invalid volume index, falling back")
	}
	logger.Debug().Int("volume", committed).Str("path", n.state.ActivePath()).Msg("Volume changed")
	return committed, nil
}

// ChangeDirectory moves the active path to entry index of the current
// snapshot. It fails with [imgnav.ErrIndexOutOfRange] when the snapshot has
// no such entry and with [imgnav.ErrNotADirectory] when the entry is not a
// directory; in both cases no state changes. It does not rescan: the stale
// snapshot stays addressable until the next scan.
func (n *Navigator) ChangeDirectory(index int) error {
	logger := util.GetLogger("Navigator.ChangeDirectory")
	n.cmdMu.Lock()
	defer n.cmdMu.Unlock()

	snap := n.state.Snapshot()
	target, ok := snap.At(index)
	if !ok {
		logger.Debug().Int("index", index).Int("entries", snap.Len()).Msg("Index out of range")
		return fmt.Errorf("change directory to entry %d: %w", index, imgnav.ErrIndexOutOfRange)
	}
	info, err := n.stat(target)
	if err != nil || !info.IsDir() {
		logger.Debug().Err(err).Int("index", index).Str("path", target).Msg("Target is not a directory")
		return fmt.Errorf("change directory to %q: %w", target, imgnav.ErrNotADirectory)
	}

	n.state.setPath(target)
	logger.Debug().Int("index", index).Str("path", target).Msg("Directory changed")
	return nil
}

// Boot re-probes the volumes, replaces the volume list and publishes the
// boot payload. If the active volume is still present its index is updated
// to its new position; otherwise volume 0 becomes active.
func (n *Navigator) Boot() imgnav.BootPayload {
	logger := util.GetLogger("Navigator.Boot")
	n.cmdMu.Lock()
	defer n.cmdMu.Unlock()

	vols := n.prober.ListVolumes()
	prev, kept := n.state.replaceVolumes(vols)
	if !kept && prev != "" && len(vols) > 0 {
		logger.Info().Str("previous", string(prev)).Str("volume", string(vols[0])).Msg("Active volume gone, reset to first volume")
	}

	payload := imgnav.BootPayload{Drives: vols}
	if n.bus != nil {
		n.bus.Publish(payload)
	}
	logger.Info().Int("volumes", len(vols)).Msg("Boot payload published")
	return payload
}
