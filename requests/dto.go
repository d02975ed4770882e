package requests

import "github.com/brettbedarf/imgnav"

// IndexRequestDTO is the JSON body of the change_volume and change_dir
// commands, i.e. `{"chgNum": 1}`
type IndexRequestDTO struct {
	ChgNum *int `json:"chgNum" validate:"required"`
}

// VolumeResponseDTO carries the volume index actually committed
type VolumeResponseDTO struct {
	Volume int `json:"volume"`
}

// ScanResponseDTO is the JSON representation of [imgnav.Snapshot]
type ScanResponseDTO struct {
	Entries     []string `json:"entries"`      // index 0 = parent entry
	SubdirCount int      `json:"subdir_count"` // navigable prefix length incl. parent
	Gen         uint64   `json:"gen"`
}

// CountResponseDTO carries the subdirectory count of the latest snapshot
type CountResponseDTO struct {
	Count int `json:"count"`
}

// ErrorDTO is the body of every failed command. Kind names the failure so
// the shell can branch without parsing Error.
type ErrorDTO struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind"`
}

// ErrorKind enumerates the command failures the shell can act on
type ErrorKind string

const (
	KindBadRequest      ErrorKind = "BadRequest"
	KindIndexOutOfRange ErrorKind = "IndexOutOfRange"
	KindNotADirectory   ErrorKind = "NotADirectory"
	KindDirUnreadable   ErrorKind = "DirUnreadable"
	KindNoVolumes       ErrorKind = "NoVolumes"
	KindInternal        ErrorKind = "Internal"
)

// NewScanResponse converts a snapshot. A nil snapshot yields an empty listing.
func NewScanResponse(snap *imgnav.Snapshot) ScanResponseDTO {
	if snap == nil {
		return ScanResponseDTO{Entries: []string{}}
	}
	return ScanResponseDTO{
		Entries:     append([]string{}, snap.Entries...),
		SubdirCount: snap.SubdirCount,
		Gen:         snap.Gen,
	}
}
