package navigator

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/brettbedarf/imgnav"
)

// State is the process-lifetime navigation state. One instance is created at
// startup and shared by reference; there are no package level singletons.
//
// Volumes, the active volume index and the active path are guarded by mu.
// The snapshot is published as an immutable generation through an atomic
// pointer so resource reads never block on, or tear against, a scan.
type State struct {
	mu      sync.RWMutex
	volumes []imgnav.VolumeID // Replaced wholesale on every probe
	volIdx  int               // Valid index into volumes, or 0
	path    string            // Active directory; validated at scan time

	snap atomic.Pointer[imgnav.Snapshot]
	gen  atomic.Uint64 // Last generation handed out
}

// NewState returns a State holding volumes with volume 0 active
func NewState(volumes []imgnav.VolumeID) *State {
	s := &State{}
	s.SetVolumes(volumes)
	if len(volumes) > 0 {
		s.path = string(volumes[0])
	}
	return s
}

// Volumes returns a copy of the current volume list
func (s *State) Volumes() []imgnav.VolumeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]imgnav.VolumeID(nil), s.volumes...)
}

// SetVolumes replaces the volume list. The caller is responsible for fixing
// up the active index; see [Navigator.Boot].
func (s *State) SetVolumes(volumes []imgnav.VolumeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append([]imgnav.VolumeID(nil), volumes...)
}

// ActivePath returns the committed directory path
func (s *State) ActivePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// ActiveVolume returns the committed volume index and identifier. The
// identifier is empty when there are no volumes.
func (s *State) ActiveVolume() (int, imgnav.VolumeID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volIdx, s.volumeLocked(s.volIdx)
}

// Active returns the committed volume index, identifier and directory as
// one consistent reading
func (s *State) Active() (int, imgnav.VolumeID, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volIdx, s.volumeLocked(s.volIdx), s.path
}

func (s *State) volumeLocked(i int) imgnav.VolumeID {
	if i < 0 || i >= len(s.volumes) {
		return ""
	}
	return s.volumes[i]
}

// selectVolume commits index i (or 0 when i is out of range) together with
// that volume's root as the active path. Returns the committed index and
// false if there is no volume to commit.
func (s *State) selectVolume(i int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.volumes) == 0 {
		s.volIdx = 0
		return 0, false
	}
	if i < 0 || i >= len(s.volumes) {
		i = 0
	}
	s.volIdx = i
	s.path = string(s.volumes[i])
	return i, true
}

// replaceVolumes swaps in a freshly probed volume list. The active volume
// keeps its identity if it is still present (its index may move); otherwise
// volume 0 and its root become active. Returns the previously active volume
// and whether it was kept.
func (s *State) replaceVolumes(volumes []imgnav.VolumeID) (imgnav.VolumeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.volumeLocked(s.volIdx)
	s.volumes = append([]imgnav.VolumeID(nil), volumes...)
	if i := slices.Index(s.volumes, prev); prev != "" && i >= 0 {
		s.volIdx = i
		return prev, true
	}
	s.volIdx = 0
	if len(s.volumes) > 0 {
		s.path = string(s.volumes[0])
	}
	return prev, false
}

// setPath commits a new active directory
func (s *State) setPath(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = p
}

// Snapshot returns the latest published generation, or nil before the first scan
func (s *State) Snapshot() *imgnav.Snapshot {
	return s.snap.Load()
}

// publish stores a new generation built from entries and returns it
func (s *State) publish(dir string, entries []string, subdirCount int) *imgnav.Snapshot {
	snap := &imgnav.Snapshot{
		Gen:         s.gen.Add(1),
		Dir:         dir,
		Entries:     entries,
		SubdirCount: subdirCount,
	}
	s.snap.Store(snap)
	return snap
}
