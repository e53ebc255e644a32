package mot

import "github.com/sirupsen/logrus"

const (
	DefaultMaxSegmentsPerObject = 8192
	DefaultMaxCachedObjects     = 256
)

// NewReassemblerOption returns an option set with the package defaults
// applied, ready for the chainable Set* methods below.
func NewReassemblerOption() *ReassemblerOption {
	return &ReassemblerOption{
		maxSegmentsPerObject: DefaultMaxSegmentsPerObject,
		maxCachedObjects:     DefaultMaxCachedObjects,
		logger:               _lg,
	}
}

// ReassemblerOption configures a Reassembler's resource limits and
// logging. Zero value is not ready for use; build one with
// NewReassemblerOption.
type ReassemblerOption struct {
	maxSegmentsPerObject int
	maxCachedObjects     int
	logger               *logrus.Logger
}

// SetMaxSegmentsPerObject caps how many datagroups of a single type the
// cache retains per transport id before it gives up on ever completing
// that object (spec.md §5, bounding memory against a stalled carousel).
func (o *ReassemblerOption) SetMaxSegmentsPerObject(n int) *ReassemblerOption {
	if n > 0 {
		o.maxSegmentsPerObject = n
	}
	return o
}

// SetMaxCachedObjects caps how many distinct transport ids the cache
// tracks concurrently, evicting the oldest incomplete entry once full.
func (o *ReassemblerOption) SetMaxCachedObjects(n int) *ReassemblerOption {
	if n > 0 {
		o.maxCachedObjects = n
	}
	return o
}

// SetLogger overrides the package default logger for this Reassembler.
func (o *ReassemblerOption) SetLogger(lg *logrus.Logger) *ReassemblerOption {
	if lg != nil {
		o.logger = lg
	}
	return o
}
