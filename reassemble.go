package mot

/*
Reassembler is the public entry point onto Cache: Push feeds raw
transport Datagroups, Next/Drain pull completed MotObjects back out. It
is the component named "Carousel reassembly" in spec.md §2/§4.5.
*/
type Reassembler struct {
	cache *Cache
	opt   *ReassemblerOption
}

// NewReassembler builds a Reassembler. A nil opt gets package defaults
// (DefaultMaxSegmentsPerObject, DefaultMaxCachedObjects).
func NewReassembler(opt *ReassemblerOption) *Reassembler {
	if opt == nil {
		opt = NewReassemblerOption()
	}
	return &Reassembler{cache: newCache(opt), opt: opt}
}

// Push feeds one datagroup into the reassembler. It never blocks and
// never returns an error: malformed or out-of-registry content is logged
// through the configured logger and the offending datagroup or object is
// dropped, per spec.md §7's "unknown/malformed data does not abort the
// carousel".
func (re *Reassembler) Push(dg Datagroup) {
	re.cache.Push(dg)
}

// Next returns the next completed object in arrival order, or (nil,
// false) if none is ready.
func (re *Reassembler) Next() (*MotObject, bool) {
	return re.cache.Next()
}

// Drain calls fn for every object currently ready, in arrival order.
func (re *Reassembler) Drain(fn func(*MotObject)) {
	for {
		obj, ok := re.cache.Next()
		if !ok {
			return
		}
		fn(obj)
	}
}
