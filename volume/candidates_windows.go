//go:build windows

package volume

// DefaultCandidates returns the drive roots `A:\` through `Z:\`
func DefaultCandidates() []string {
	c := make([]string, 0, 26)
	for l := 'A'; l <= 'Z'; l++ {
		c = append(c, string(l)+`:\`)
	}
	return c
}
