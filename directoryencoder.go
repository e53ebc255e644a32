package mot

/*
DirectoryEncoder builds the bytes of a Directory segment (spec.md §4.4)
from a set of MotObjects plus carousel-wide defaults. original_source's
DirectoryEncoder is an unimplemented stub; this is a from-scratch build
of the encode side the decoder in cache.go/parseDirectory already
understands, following the same field layout.

Objects are kept in insertion order, keyed by transport id: re-adding an
id replaces its entry in place rather than moving it to the end.
*/
type DirectoryEncoder struct {
	order   []uint16
	objects map[uint16]*MotObject
	params  []DirectoryParameter

	compressionFlag bool
	carouselPeriod  uint32 // tenths of a second
	segmentSize     uint16 // bytes per Directory wire segment
}

// NewDirectoryEncoder returns an empty encoder.
func NewDirectoryEncoder() *DirectoryEncoder {
	return &DirectoryEncoder{objects: make(map[uint16]*MotObject)}
}

// Add inserts obj, or replaces the existing entry for the same transport
// id while keeping its original position.
func (d *DirectoryEncoder) Add(obj *MotObject) *DirectoryEncoder {
	if _, exists := d.objects[obj.TransportID()]; !exists {
		d.order = append(d.order, obj.TransportID())
	}
	d.objects[obj.TransportID()] = obj
	return d
}

// Set replaces the entire managed object set with objects, in the given
// order, discarding whatever was queued before (spec.md §4.6's
// add/remove/clear/set operation set).
func (d *DirectoryEncoder) Set(objects []*MotObject) *DirectoryEncoder {
	d.order = make([]uint16, 0, len(objects))
	d.objects = make(map[uint16]*MotObject, len(objects))
	for _, obj := range objects {
		d.Add(obj)
	}
	return d
}

// Remove drops the entry for transportID, if present.
func (d *DirectoryEncoder) Remove(transportID uint16) *DirectoryEncoder {
	if _, exists := d.objects[transportID]; !exists {
		return d
	}
	delete(d.objects, transportID)
	for i, id := range d.order {
		if id == transportID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return d
}

// Clear removes every object entry. Directory-wide defaults and flags
// set via SetDefaultPermitOutdatedVersions etc. are left untouched.
func (d *DirectoryEncoder) Clear() *DirectoryEncoder {
	d.order = nil
	d.objects = make(map[uint16]*MotObject)
	return d
}

// Len returns the number of object entries currently queued.
func (d *DirectoryEncoder) Len() int {
	return len(d.order)
}

// SetCompressionFlag sets the carousel-wide CompressionFlag bit.
func (d *DirectoryEncoder) SetCompressionFlag(flag bool) *DirectoryEncoder {
	d.compressionFlag = flag
	return d
}

// SetCarouselPeriod sets the expected full-cycle period, in tenths of a
// second. 0 means undefined.
func (d *DirectoryEncoder) SetCarouselPeriod(tenthsOfSecond uint32) *DirectoryEncoder {
	d.carouselPeriod = tenthsOfSecond
	return d
}

// SetSegmentSize sets the per-segment chunk size advertised in the
// Directory Header.
func (d *DirectoryEncoder) SetSegmentSize(bytes uint16) *DirectoryEncoder {
	d.segmentSize = bytes
	return d
}

// SetDefaultPermitOutdatedVersions attaches (or replaces) the directory's
// DefaultPermitOutdatedVersions parameter.
func (d *DirectoryEncoder) SetDefaultPermitOutdatedVersions(permit bool) *DirectoryEncoder {
	d.setParam(DefaultPermitOutdatedVersionsParam{Permit: permit})
	return d
}

// SetSortedHeaderInformation marks the directory entries as sorted by
// ContentName.
func (d *DirectoryEncoder) SetSortedHeaderInformation() *DirectoryEncoder {
	d.setParam(SortedHeaderInformationParam{})
	return d
}

func (d *DirectoryEncoder) setParam(p DirectoryParameter) {
	for i, existing := range d.params {
		if existing.Kind() == p.Kind() {
			d.params[i] = p
			return
		}
	}
	d.params = append(d.params, p)
}

// Encode serializes the full Directory segment body: Directory Header,
// directory-scope parameters, then one (transport id, Header Core,
// parameters) entry per object in insertion order.
func (d *DirectoryEncoder) Encode() ([]byte, error) {
	var paramBuf []byte
	for _, p := range d.params {
		b, err := EncodeDirectoryParameter(p)
		if err != nil {
			return nil, err
		}
		paramBuf = append(paramBuf, b...)
	}

	var entriesBuf []byte
	for _, id := range d.order {
		obj := d.objects[id]
		var objParamBuf []byte
		for _, p := range obj.Parameters() {
			b, err := EncodeHeaderParameter(p)
			if err != nil {
				return nil, err
			}
			objParamBuf = append(objParamBuf, b...)
		}
		core := HeaderCore{
			BodySize:    uint32(len(obj.Body())),
			HeaderSize:  uint16(headerCoreBytes + len(objParamBuf)),
			ContentType: obj.ContentType(),
		}
		entriesBuf = append(entriesBuf, serializeBigEndianUint16(obj.TransportID())...)
		entriesBuf = append(entriesBuf, core.Encode()...)
		entriesBuf = append(entriesBuf, objParamBuf...)
	}

	dh := DirectoryHeader{
		CompressionFlag:          d.compressionFlag,
		NumberOfObjects:          uint16(len(d.order)),
		CarouselPeriod:           d.carouselPeriod,
		SegmentSize:              d.segmentSize,
		DirectoryExtensionLength: uint16(len(paramBuf)),
	}
	body := make([]byte, 0, len(paramBuf)+len(entriesBuf))
	body = append(body, paramBuf...)
	body = append(body, entriesBuf...)
	dh.DirectorySize = uint32(directoryHeaderBytes + len(body))

	out := make([]byte, 0, directoryHeaderBytes+len(body))
	out = append(out, dh.Encode()...)
	out = append(out, body...)
	return out, nil
}
