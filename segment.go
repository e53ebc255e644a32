package mot

import "github.com/sirupsen/logrus"

/*
Segment, Header Core and Directory Header are the grammars used both to
emit and to parse a single self-contained chunk of the carousel wire
format (spec.md §4.4). They operate on a flat byte slice — the carousel
reassembler in reassemble.go is what turns a stream of transport
Datagroups into these chunks; Segment itself does not know about
Datagroups.
*/

// Segment is the 16-bit preamble (3-bit repetition count, 13-bit size)
// that wraps a Header-Core block, a Directory block, or a raw body
// payload.
type Segment struct {
	Repetition uint8 // 3 bits
	Size       uint16 // 13 bits, body size in bytes
	Data       []byte
}

const segmentPreambleBytes = 2

// Encode serializes the segment preamble followed by Data.
func (s Segment) Encode() []byte {
	w := NewBitWriter()
	w.WriteBits(uint64(s.Repetition), 3)
	w.WriteBits(uint64(s.Size), 13)
	w.WriteBytes(s.Data)
	return w.Bytes()
}

// DecodeSegment reads the preamble and takes the rest of data as the body.
func DecodeSegment(data []byte) (*Segment, error) {
	if len(data) < segmentPreambleBytes {
		return nil, newError(KindMalformedParameter, "segment shorter than the %d-byte preamble", segmentPreambleBytes)
	}
	r := NewBitReader(data)
	repetition, _ := r.ReadBits(3)
	size, _ := r.ReadBits(13)
	body, err := r.ReadBytes(len(data) - segmentPreambleBytes)
	if err != nil {
		return nil, newError(KindMalformedParameter, "reading segment body: %v", err)
	}
	return &Segment{Repetition: uint8(repetition), Size: uint16(size), Data: body}, nil
}

const headerCoreBytes = 7
const headerCoreBits = headerCoreBytes * 8

// HeaderCore is the fixed 7-byte prefix of a Header segment or a
// directory entry: body size, header size (core + parameters, in bytes),
// and content type.
type HeaderCore struct {
	BodySize    uint32 // 28 bits
	HeaderSize  uint16 // 13 bits, bytes, covers core + parameters
	ContentType ContentType
}

// Encode serializes the 7-byte Header Core.
func (h HeaderCore) Encode() []byte {
	w := NewBitWriter()
	w.WriteBits(uint64(h.BodySize), 28)
	w.WriteBits(uint64(h.HeaderSize), 13)
	w.WriteBits(uint64(h.ContentType.Type), 6)
	w.WriteBits(uint64(h.ContentType.Subtype), 9)
	return w.Bytes()
}

// DecodeHeaderCore reads a Header Core starting at r's current
// (byte-aligned) position.
func DecodeHeaderCore(r *BitReader) (HeaderCore, error) {
	if r.Remaining() < headerCoreBits {
		return HeaderCore{}, newError(KindMalformedParameter, "header core needs %d bits, only %d remain", headerCoreBits, r.Remaining())
	}
	bodySize, _ := r.ReadBits(28)
	headerSize, _ := r.ReadBits(13)
	ctype, _ := r.ReadBits(6)
	csub, _ := r.ReadBits(9)
	return HeaderCore{
		BodySize:    uint32(bodySize),
		HeaderSize:  uint16(headerSize),
		ContentType: ContentType{Type: uint8(ctype), Subtype: uint16(csub)},
	}, nil
}

// ParseHeaderParameters reads header parameters from r until endBit,
// logging and skipping unknown ones rather than failing the whole list
// (spec.md §4.5 "Unknown parameters are logged and skipped"). A malformed
// parameter aborts the remainder of the list and is returned as err. A
// nil lg falls back to the package default logger.
func ParseHeaderParameters(r *BitReader, endBit uint, lg *logrus.Logger) ([]HeaderParameter, error) {
	if lg == nil {
		lg = _lg
	}
	var params []HeaderParameter
	for r.Pos() < endBit {
		p, err := DecodeHeaderParameter(r)
		if err != nil {
			if IsErrUnknownHeaderParameter(err) {
				me := err.(*Error)
				lg.Warnf("unknown header parameter (0x%02x), skipping %d raw bytes", me.ParamID, len(me.Raw))
				continue
			}
			return params, err
		}
		params = append(params, p)
	}
	return params, nil
}

const directoryHeaderBytes = 13
const directoryHeaderBits = directoryHeaderBytes * 8

/*
DirectoryHeader is the fixed 13-byte prefix of a Directory segment.

spec.md §4.4 lists CompressionFlag(1)+DirectorySize(30)+NumberOfObjects(16)
+CarouselPeriod(24)+RFU(3)+SegmentSize(13)+DirectoryExtensionLength(16),
which sums to 103 bits against the section's own stated 104-bit/13-byte
total. original_source's bit-slicing (`buf[1:32]` for DirectorySize,
`buf[32:48]` for NumberOfObjects) resolves the gap the other way:
DirectorySize is 31 bits, not 30, with no extra RFU before it. See
DESIGN.md.
*/
type DirectoryHeader struct {
	CompressionFlag          bool
	DirectorySize             uint32 // 31 bits
	NumberOfObjects           uint16
	CarouselPeriod            uint32 // 24 bits, tenths of a second; 0 = undefined
	SegmentSize               uint16 // 13 bits
	DirectoryExtensionLength  uint16
}

// Encode serializes the 13-byte Directory Header.
func (d DirectoryHeader) Encode() []byte {
	w := NewBitWriter()
	w.WriteBits(boolBit(d.CompressionFlag), 1)
	w.WriteBits(uint64(d.DirectorySize), 31)
	w.WriteBits(uint64(d.NumberOfObjects), 16)
	w.WriteBits(uint64(d.CarouselPeriod), 24)
	w.WriteBits(0, 3) // RFU
	w.WriteBits(uint64(d.SegmentSize), 13)
	w.WriteBits(uint64(d.DirectoryExtensionLength), 16)
	return w.Bytes()
}

// DecodeDirectoryHeader reads a Directory Header starting at r's current
// (byte-aligned) position.
func DecodeDirectoryHeader(r *BitReader) (DirectoryHeader, error) {
	if r.Remaining() < directoryHeaderBits {
		return DirectoryHeader{}, newError(KindMalformedParameter, "directory header needs %d bits, only %d remain", directoryHeaderBits, r.Remaining())
	}
	flag, _ := r.ReadBits(1)
	dirSize, _ := r.ReadBits(31)
	numObjects, _ := r.ReadBits(16)
	period, _ := r.ReadBits(24)
	r.ReadBits(3) // RFU
	segSize, _ := r.ReadBits(13)
	extLen, _ := r.ReadBits(16)
	return DirectoryHeader{
		CompressionFlag:          flag == 1,
		DirectorySize:            uint32(dirSize),
		NumberOfObjects:          uint16(numObjects),
		CarouselPeriod:           uint32(period),
		SegmentSize:              uint16(segSize),
		DirectoryExtensionLength: uint16(extLen),
	}, nil
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
