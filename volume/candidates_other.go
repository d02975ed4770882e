//go:build !windows

package volume

// DefaultCandidates returns the filesystem root; other mounts are reachable
// from it or can be listed in the configuration
func DefaultCandidates() []string {
	return []string{"/"}
}
