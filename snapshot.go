package imgnav

// Snapshot is one immutable generation of a directory scan. Index 0 is the
// synthetic parent entry, followed by subdirectories then files, each group
// sorted. A Snapshot is never modified after it is published; a new scan
// produces a new value.
type Snapshot struct {
	Gen         uint64   // Monotonic generation number, starting at 1
	Dir         string   // Directory that was scanned
	Entries     []string // Full paths addressed by position
	SubdirCount int      // Directory entries including the synthetic parent
}

// Len returns the number of addressable entries. Safe on a nil Snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// At returns the path at index i, or false if the index has no entry
func (s *Snapshot) At(i int) (string, bool) {
	if i < 0 || i >= s.Len() {
		return "", false
	}
	return s.Entries[i], true
}

// IsDirIndex reports whether i falls in the navigable directory prefix
func (s *Snapshot) IsDirIndex(i int) bool {
	return s != nil && i >= 0 && i < s.SubdirCount && i < len(s.Entries)
}
