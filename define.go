package mot

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
)

var _lg = logrus.New()

// SetLogger replaces the package-level logger used for decode-path
// diagnostics (unknown parameters, malformed segments, directory parse
// failures). The zero-value default is always usable.
func SetLogger(lg *logrus.Logger) {
	_lg = lg
}

// MOT is big-endian throughout (spec.md §6), unlike the teacher protocol's
// little-endian control fields.
func serializeBigEndianUint16(i uint16) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, i)
	return out
}
