package requests

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brettbedarf/imgnav"
	"github.com/go-playground/validator/v10"
)

// ErrBadRequest wraps every decoding or validation failure
var ErrBadRequest = errors.New("bad request")

var validate = validator.New()

// UnmarshalIndexRequest decodes an [IndexRequestDTO] and returns its index.
// A missing index or malformed JSON is rejected; range checking is left to
// the command so negative volume indices fall back like any other invalid one.
func UnmarshalIndexRequest(data []byte) (int, error) {
	var dto IndexRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := validate.Struct(dto); err != nil {
		return 0, fmt.Errorf("%w: chgNum is required", ErrBadRequest)
	}
	return *dto.ChgNum, nil
}

// KindOf maps a command error onto the [ErrorKind] reported to the shell
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, imgnav.ErrIndexOutOfRange):
		return KindIndexOutOfRange
	case errors.Is(err, imgnav.ErrNotADirectory):
		return KindNotADirectory
	case errors.Is(err, imgnav.ErrDirUnreadable):
		return KindDirUnreadable
	case errors.Is(err, imgnav.ErrNoVolumes):
		return KindNoVolumes
	default:
		return KindInternal
	}
}

// NewErrorDTO builds the response body for err
func NewErrorDTO(err error) ErrorDTO {
	return ErrorDTO{Error: err.Error(), Kind: KindOf(err)}
}
