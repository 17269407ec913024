package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownClass is returned when a class name or type has no
	// registration in the registry the buffer resolves through.
	ErrUnknownClass = errors.New("wire: unknown class")

	// ErrDummyStreamer is returned by the streamer of a class whose version
	// is not positive and which has no serializable base to forward to.
	ErrDummyStreamer = errors.New("wire: class does not take part in versioned streaming")
)

// FramingError reports a class block whose consumed size disagrees with the
// byte count recorded in its header. The buffer has already been moved to the
// end of the block when it is returned, so the caller may keep reading.
type FramingError struct {
	Class string
	Start int
	Want  int
	Got   int
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("wire: %s: block at offset %d declares %d bytes, streamer consumed %d", e.Class, e.Start, e.Want, e.Got)
}

// VersionError reports an on-file version the reader cannot decode.
type VersionError struct {
	Class   string
	OnFile  int16
	Current int16
}

func (e *VersionError) Error() string {
	if e.OnFile > e.Current {
		return fmt.Sprintf("wire: %s: on-file version %d is newer than %d, block skipped", e.Class, e.OnFile, e.Current)
	}
	return fmt.Sprintf("wire: %s: no layout for on-file version %d (current %d), block skipped", e.Class, e.OnFile, e.Current)
}

// DummyStreamer is the body of a streamer for a class that does not stream
// itself and has no base to forward to.
func DummyStreamer(class string) error {
	return fmt.Errorf("%w: %s", ErrDummyStreamer, class)
}
