// Package imgnav contains core domain types and interfaces for the image
// navigation backend: volumes, directory snapshots and the command surface
// the desktop shell drives.
package imgnav

import "errors"

// VolumeID identifies a top-level storage root, i.e. `C:\` or `/`
type VolumeID string

var (
	// ErrIndexOutOfRange is returned when a positional index has no entry in the
	// current snapshot
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotADirectory is returned when a navigation target is not a directory
	ErrNotADirectory = errors.New("not a directory")
	// ErrDirUnreadable means the active path could no longer be opened as a
	// directory. The session state is corrupt and the caller must surface it.
	ErrDirUnreadable = errors.New("active directory unreadable")
	// ErrNoVolumes is returned by volume changes when the probe found nothing
	ErrNoVolumes = errors.New("no volumes available")
	// ErrResourceNotFound is the single failure of the resource-fetch path
	ErrResourceNotFound = errors.New("resource not found")
)

// BootPayload is emitted to the shell on startup and on every refresh
type BootPayload struct {
	Drives []VolumeID `json:"drives"`
}

// Location describes the committed navigation state
type Location struct {
	VolumeIndex int      `json:"volume_index"`
	Volume      VolumeID `json:"volume"`
	Path        string   `json:"path"`
	// Gen is the generation of the latest snapshot; 0 before the first scan
	Gen uint64 `json:"gen"`
	// Stale is true when Path no longer matches the directory of the snapshot
	Stale bool `json:"stale"`
}

// Navigator is the command surface exposed to the shell. Implementations must
// be safe for concurrent use by the command and resource paths.
type Navigator interface {
	// ChangeVolume commits the requested volume or falls back to volume 0 and
	// returns the index actually committed
	ChangeVolume(index int) (int, error)
	// ScanDirectory lists the active path and publishes a new snapshot
	ScanDirectory() (*Snapshot, error)
	// ChangeDirectory moves the active path to snapshot entry index
	ChangeDirectory(index int) error
	// CountSubdirectories returns the navigable prefix length of the snapshot
	CountSubdirectories() int
	// Boot re-probes volumes and returns the boot payload
	Boot() BootPayload
	// Location returns the committed navigation state
	Location() Location
	// Resolve returns the image at index in the current snapshot
	Resolve(index int) (*Resource, error)
}

// Resource is a retrievable image file read from a snapshot entry
type Resource struct {
	Path        string
	ContentType string
	Data        []byte
}
