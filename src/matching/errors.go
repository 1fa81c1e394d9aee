package matching

import (
	"fmt"

	"github.com/warp-contracts/escrow/src/utils/fault"
)

var (
	ErrInvalidTimeRange        = fault.New(fault.Validation, "end time must be after start time")
	ErrInvalidPrice            = fault.New(fault.Validation, "price per hour and total price must be positive")
	ErrInvalidMatchScore       = fault.New(fault.Validation, "match score must be between 0 and 100")
	ErrMissingReference        = fault.New(fault.Validation, "demand and resource ids are required")
	ErrMatchScoreTooLow        = fault.New(fault.Validation, "resource doesn't match the demand well enough")
	ErrInvalidMatchStatus      = fault.New(fault.State, "invalid match status")
	ErrCannotRejectActiveMatch = fault.New(fault.State, "cannot reject a match that is confirmed or finished")
	ErrMatchNotFound           = fault.New(fault.NotFound, "match not found")

	// Still an ErrInvalidMatchStatus
	ErrInvalidMatchStatusForCompletion = fmt.Errorf("%w: only confirmed matches can be completed", ErrInvalidMatchStatus)
)
