// Package navigator implements the stateful directory-navigation engine:
// volume and directory switching, ordered directory snapshots addressed by
// position, and resolution of positions back to image files.
package navigator

import (
	"os"
	"sync"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/config"
)

// VolumeLister enumerates volumes; implemented by [volume.Prober]
type VolumeLister interface {
	ListVolumes() []imgnav.VolumeID
}

// BootPublisher receives every boot payload; implemented by [events.Bus]
type BootPublisher interface {
	Publish(payload imgnav.BootPayload)
}

// Navigator owns the navigation [State] and implements [imgnav.Navigator].
//
// Commands (ChangeVolume, ChangeDirectory, ScanDirectory, Boot) are
// serialized by cmdMu so a path change never interleaves with a scan.
// Resolve and CountSubdirectories only read the published snapshot and never
// take cmdMu.
type Navigator struct {
	cfg    *config.Config
	state  *State
	prober VolumeLister
	bus    BootPublisher // optional
	cmdMu  sync.Mutex

	// filesystem hooks, swapped in tests
	readDir  func(name string) ([]os.DirEntry, error)
	stat     func(name string) (os.FileInfo, error)
	readFile func(name string, limit int64) ([]byte, error)
}

var _ imgnav.Navigator = (*Navigator)(nil)

// New probes the volumes once and returns a Navigator with volume 0 active
// and no snapshot. bus may be nil.
func New(cfg *config.Config, prober VolumeLister, bus BootPublisher) *Navigator {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Navigator{
		cfg:      cfg,
		state:    NewState(prober.ListVolumes()),
		prober:   prober,
		bus:      bus,
		readDir:  readDirEntries,
		stat:     os.Stat,
		readFile: readFileLimited,
	}
}

// State exposes the underlying navigation state
func (n *Navigator) State() *State {
	return n.state
}

// Location returns the committed navigation state
func (n *Navigator) Location() imgnav.Location {
	idx, vol, path := n.state.Active()
	snap := n.state.Snapshot()

	loc := imgnav.Location{
		VolumeIndex: idx,
		Volume:      vol,
		Path:        path,
		Stale:       true,
	}
	if snap != nil {
		loc.Gen = snap.Gen
		loc.Stale = snap.Dir != path
	}
	return loc
}

// CountSubdirectories returns the SubdirCount of the latest snapshot, 0 before
// the first scan
func (n *Navigator) CountSubdirectories() int {
	if snap := n.state.Snapshot(); snap != nil {
		return snap.SubdirCount
	}
	return 0
}
