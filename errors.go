package motion

import "errors"

// Common errors for pipeline invocations.
var (
	// ErrNilImage is returned when the source or destination pixmap is nil.
	ErrNilImage = errors.New("motion: nil source or destination image")

	// ErrSizeMismatch is returned when source and destination dimensions differ.
	ErrSizeMismatch = errors.New("motion: source and destination dimensions differ")

	// ErrEmptyFrame is returned when the source frame has zero dimensions.
	ErrEmptyFrame = errors.New("motion: empty source frame")

	// ErrNoSource is returned when the pipeline has no frame source configured.
	ErrNoSource = errors.New("motion: no frame source configured")

	// ErrFrameInput is returned when the frame source supplies velocity or
	// depth data of the wrong length for the current frame.
	ErrFrameInput = errors.New("motion: frame input length mismatch")

	// ErrClosed is returned when rendering through a closed pipeline.
	ErrClosed = errors.New("motion: pipeline is closed")
)
