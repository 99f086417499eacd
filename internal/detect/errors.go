package detect

import "errors"

// ErrInvalidFrame is returned when an input frame is nil or has zero width or height.
var ErrInvalidFrame = errors.New("invalid frame")

// ErrDimensionMismatch is returned when the reference and current frame
// dimensions disagree. This indicates a caller configuration problem: the
// frame source must keep its dimensions stable for the whole session.
var ErrDimensionMismatch = errors.New("frame dimension mismatch")
