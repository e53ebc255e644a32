package mot

import "github.com/cespare/xxhash/v2"

/*
Transport-ID generation is named an external collaborator in spec.md §1
("the MSC transport helpers ... transport-ID generation"): the real
generator lives in the broadcast stack that actually allocates carousel
slots, not in this codec. DefaultTransportIDGenerator is a concrete,
deterministic stand-in so NewMotObjectWithGeneratedID works out of the
box; callers wire in the real one by passing their own
func([]byte) uint16 instead.
*/

// DefaultTransportIDGenerator derives a 16-bit transport id from name by
// folding an xxhash64 digest down to 16 bits.
func DefaultTransportIDGenerator(name []byte) uint16 {
	h := xxhash.Sum64(name)
	folded := uint32(h>>32) ^ uint32(h)
	return uint16(folded>>16) ^ uint16(folded)
}
