package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrThreshold is returned by FlagWeights for thresholds outside (0, 1).
var ErrThreshold = errors.New("threshold must be in the interval (0, 1)")

// ErrUnknownAntenna reports an antenna name absent from the ANTENNA
// subtable. Known carries the full set of valid names to aid correction.
type ErrUnknownAntenna struct {
	Name  string
	Known []string
}

func (e *ErrUnknownAntenna) Error() string {
	return fmt.Sprintf("antenna %q not found; available antennas: %s",
		e.Name, strings.Join(e.Known, ", "))
}
