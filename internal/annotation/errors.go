package annotation

import "errors"

var (
	ErrNotVideo        = errors.New("only video files can be selected")
	ErrNoVideo         = errors.New("no video loaded")
	ErrNoStartMark     = errors.New("please mark the start frame first")
	ErrNotNumeric      = errors.New("start and end frames must be valid numbers")
	ErrOutOfRange      = errors.New("frames out of range")
	ErrInverted        = errors.New("start frame must be less than end frame")
	ErrUnknownBehavior = errors.New("unknown behavior")
	ErrIndexOutOfRange = errors.New("interval index out of range")
)
