// Package volume enumerates the storage roots the host exposes.
package volume

import (
	"os"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/internal/util"
)

// StatFunc reports file info for a candidate root; os.Stat in production
type StatFunc func(name string) (os.FileInfo, error)

// Probe returns the candidates that resolve to an accessible directory, in
// candidate order. It never fails: missing, unreadable and non-directory
// candidates are omitted.
func Probe(candidates []string, stat StatFunc) []imgnav.VolumeID {
	logger := util.GetLogger("Volume.Probe")
	if stat == nil {
		stat = os.Stat
	}

	vols := make([]imgnav.VolumeID, 0, len(candidates))
	for _, c := range candidates {
		info, err := stat(c)
		if err != nil {
			logger.Trace().Err(err).Str("candidate", c).Msg("Candidate skipped")
			continue
		}
		if !info.IsDir() {
			logger.Trace().Str("candidate", c).Msg("Candidate is not a directory")
			continue
		}
		vols = append(vols, imgnav.VolumeID(c))
	}
	logger.Debug().Int("candidates", len(candidates)).Int("volumes", len(vols)).Msg("Probe finished")
	return vols
}

// Prober probes a fixed candidate set. It holds no state between calls.
type Prober struct {
	candidates []string
	stat       StatFunc
}

// NewProber returns a Prober over candidates, or the platform defaults when
// candidates is empty
func NewProber(candidates []string) *Prober {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	return &Prober{candidates: append([]string(nil), candidates...), stat: os.Stat}
}

// Candidates returns a copy of the probed candidate set
func (p *Prober) Candidates() []string {
	return append([]string(nil), p.candidates...)
}

// ListVolumes probes every candidate. See [Probe].
func (p *Prober) ListVolumes() []imgnav.VolumeID {
	return Probe(p.candidates, p.stat)
}
