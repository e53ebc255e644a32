package mot

import "time"

/*
HeaderParameter is a closed, extensible family of typed values carried in
an MOT header or directory entry (spec.md §3/§4.2). The source keyed its
parameter map by Python class identity; here the family is a tagged
variant (Kind) whose value is the map key in MotObject.parameters, which
makes "at most one parameter of each kind" hold naturally (spec.md §9).
*/
type ParamKind int

const (
	ParamContentName ParamKind = iota
	ParamMimeType
	ParamRelativeExpiration
	ParamAbsoluteExpiration
	ParamCompression
	ParamPriority
)

func (k ParamKind) String() string {
	switch k {
	case ParamContentName:
		return "ContentName"
	case ParamMimeType:
		return "MimeType"
	case ParamRelativeExpiration:
		return "RelativeExpiration"
	case ParamAbsoluteExpiration:
		return "AbsoluteExpiration"
	case ParamCompression:
		return "Compression"
	case ParamPriority:
		return "Priority"
	default:
		return "Unknown"
	}
}

// HeaderParameter is implemented by each of the six variants below.
type HeaderParameter interface {
	Kind() ParamKind
	paramID() uint8
	encodePayload() ([]byte, error)
}

// EncodeHeaderParameter frames p per spec.md §4.1.
func EncodeHeaderParameter(p HeaderParameter) ([]byte, error) {
	payload, err := p.encodePayload()
	if err != nil {
		return nil, err
	}
	return encodeHeaderParamFrame(p.paramID(), payload)
}

const (
	idContentName         = 12
	idPriority            = 10
	idMimeType            = 16
	idExpiration          = 4
	idCompression         = 17
	idDirPermitOutdated   = 1
	idDirExpiration       = 9
	idDirSortedHeaderInfo = 0
)

var headerParamDecoders = map[uint8]func([]byte) (HeaderParameter, error){
	idContentName: decodeContentName,
	idMimeType:    decodeMimeType,
	idExpiration:  decodeExpiration,
	idCompression: decodeCompression,
	idPriority:    decodePriority,
}

/*
DecodeHeaderParameter reads one parameter starting at r's current
(byte-aligned) position. If the parameter id is not in the registry, it
returns an *Error of KindUnknownHeaderParameter carrying the id and the
full raw span (preamble + payload) so the caller can log and skip it, per
spec.md §4.1/§7.
*/
func DecodeHeaderParameter(r *BitReader) (HeaderParameter, error) {
	start := r.Pos()
	id, payload, err := readParamFrame(r)
	if err != nil {
		return nil, err
	}
	end := r.Pos()

	decode, ok := headerParamDecoders[id]
	if !ok {
		return nil, &Error{
			Kind:    KindUnknownHeaderParameter,
			msg:     "unknown header parameter id",
			ParamID: id,
			Raw:     append([]byte(nil), r.Slice(start, end)...),
		}
	}
	return decode(payload)
}

// Charset identifies the character set tag carried by ContentName. Bytes
// are kept opaque; transcoding to a display string is out of scope
// (spec.md §1/§9).
type Charset uint8

const (
	CharsetEBULatin           Charset = 0
	CharsetEBULatinCommonCore Charset = 1
	CharsetEBULatinCore       Charset = 2
	CharsetISOLatin2          Charset = 3
	CharsetISOLatin1          Charset = 4
	CharsetISOIEC10646        Charset = 15
)

// ContentNameParam carries the object's name with its character set tag.
// Every MotObject requires exactly one of these (spec.md §3).
type ContentNameParam struct {
	Charset Charset
	Name    []byte
}

func (ContentNameParam) Kind() ParamKind    { return ParamContentName }
func (ContentNameParam) paramID() uint8     { return idContentName }
func (c ContentNameParam) encodePayload() ([]byte, error) {
	w := NewBitWriter()
	w.WriteBits(uint64(c.Charset), 4)
	w.WriteBits(0, 4) // RFA
	w.WriteBytes(c.Name)
	return w.Bytes(), nil
}

func decodeContentName(data []byte) (HeaderParameter, error) {
	if len(data) < 1 {
		return nil, newError(KindMalformedParameter, "ContentName payload must be at least 1 byte")
	}
	return ContentNameParam{
		Charset: Charset(data[0] >> 4),
		Name:    append([]byte(nil), data[1:]...),
	}, nil
}

// MimeTypeParam tags the object with a MIME content type string.
type MimeTypeParam struct {
	Name []byte
}

func (MimeTypeParam) Kind() ParamKind { return ParamMimeType }
func (MimeTypeParam) paramID() uint8  { return idMimeType }
func (m MimeTypeParam) encodePayload() ([]byte, error) {
	return append([]byte(nil), m.Name...), nil
}

func decodeMimeType(data []byte) (HeaderParameter, error) {
	return MimeTypeParam{Name: append([]byte(nil), data...)}, nil
}

// CompressionParam signals the compression algorithm applied to the body.
type CompressionParam struct {
	Type uint8
}

const (
	CompressionReserved uint8 = 0
	CompressionGZIP     uint8 = 1
)

func (CompressionParam) Kind() ParamKind { return ParamCompression }
func (CompressionParam) paramID() uint8  { return idCompression }
func (c CompressionParam) encodePayload() ([]byte, error) {
	return []byte{c.Type}, nil
}

func decodeCompression(data []byte) (HeaderParameter, error) {
	if len(data) != 1 {
		return nil, newError(KindMalformedParameter, "Compression payload must be 1 byte, got %d", len(data))
	}
	return CompressionParam{Type: data[0]}, nil
}

// PriorityParam indicates storage priority: 0 highest, 255 lowest.
type PriorityParam struct {
	Value uint8
}

func (PriorityParam) Kind() ParamKind { return ParamPriority }
func (PriorityParam) paramID() uint8  { return idPriority }
func (p PriorityParam) encodePayload() ([]byte, error) {
	return []byte{p.Value}, nil
}

func decodePriority(data []byte) (HeaderParameter, error) {
	if len(data) != 1 {
		return nil, newError(KindMalformedParameter, "Priority payload must be 1 byte, got %d", len(data))
	}
	return PriorityParam{Value: data[0]}, nil
}

// RelativeExpirationParam and AbsoluteExpirationParam share wire id 4; the
// decoder disambiguates by payload length (spec.md §4.2).
type RelativeExpirationParam struct {
	Offset time.Duration
}

func (RelativeExpirationParam) Kind() ParamKind { return ParamRelativeExpiration }
func (RelativeExpirationParam) paramID() uint8  { return idExpiration }
func (r RelativeExpirationParam) encodePayload() ([]byte, error) {
	return encodeRelativeTime(r.Offset)
}

// AbsoluteExpirationParam's Timepoint is nil for "NOW"/unspecified.
type AbsoluteExpirationParam struct {
	Timepoint *time.Time
}

func (AbsoluteExpirationParam) Kind() ParamKind { return ParamAbsoluteExpiration }
func (AbsoluteExpirationParam) paramID() uint8  { return idExpiration }
func (a AbsoluteExpirationParam) encodePayload() ([]byte, error) {
	return encodeAbsoluteTime(a.Timepoint), nil
}

func decodeExpiration(data []byte) (HeaderParameter, error) {
	switch len(data) {
	case 1:
		offset, err := decodeRelativeTime(data)
		if err != nil {
			return nil, err
		}
		return RelativeExpirationParam{Offset: offset}, nil
	case 4, 6:
		t, err := decodeAbsoluteTime(data)
		if err != nil {
			return nil, err
		}
		return AbsoluteExpirationParam{Timepoint: t}, nil
	default:
		return nil, newError(KindMalformedParameter, "unknown payload length for expiration parameter: %d bytes", len(data))
	}
}
