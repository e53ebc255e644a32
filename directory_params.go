package mot

import "time"

/*
DirectoryParameter is a variant family distinct from HeaderParameter: it
uses the same PLI preamble but a separate id namespace and the 4-byte
length-encoding divergence described in paramframe.go (spec.md §3/§4.1).
Default*Expiration share wire id 9 in original_source, disambiguated by
payload length exactly like the header Expiration parameters share id 4.
*/
type DirParamKind int

const (
	DirParamDefaultPermitOutdatedVersions DirParamKind = iota
	DirParamDefaultRelativeExpiration
	DirParamDefaultAbsoluteExpiration
	DirParamSortedHeaderInformation
)

func (k DirParamKind) String() string {
	switch k {
	case DirParamDefaultPermitOutdatedVersions:
		return "DefaultPermitOutdatedVersions"
	case DirParamDefaultRelativeExpiration:
		return "DefaultRelativeExpiration"
	case DirParamDefaultAbsoluteExpiration:
		return "DefaultAbsoluteExpiration"
	case DirParamSortedHeaderInformation:
		return "SortedHeaderInformation"
	default:
		return "Unknown"
	}
}

// DirectoryParameter is implemented by each of the four variants below.
type DirectoryParameter interface {
	Kind() DirParamKind
	paramID() uint8
	encodePayload() ([]byte, error)
}

// EncodeDirectoryParameter frames p with the directory-scope length rule.
func EncodeDirectoryParameter(p DirectoryParameter) ([]byte, error) {
	payload, err := p.encodePayload()
	if err != nil {
		return nil, err
	}
	return encodeDirectoryParamFrame(p.paramID(), payload)
}

var directoryParamDecoders = map[uint8]func([]byte) (DirectoryParameter, error){
	idDirPermitOutdated:   decodeDefaultPermitOutdatedVersions,
	idDirExpiration:       decodeDefaultExpiration,
	idDirSortedHeaderInfo: decodeSortedHeaderInformation,
}

// DecodeDirectoryParameter mirrors DecodeHeaderParameter for the directory
// parameter namespace.
func DecodeDirectoryParameter(r *BitReader) (DirectoryParameter, error) {
	start := r.Pos()
	id, payload, err := readParamFrame(r)
	if err != nil {
		return nil, err
	}
	end := r.Pos()

	decode, ok := directoryParamDecoders[id]
	if !ok {
		return nil, &Error{
			Kind:    KindUnknownHeaderParameter,
			msg:     "unknown directory parameter id",
			ParamID: id,
			Raw:     append([]byte(nil), r.Slice(start, end)...),
		}
	}
	return decode(payload)
}

// DefaultPermitOutdatedVersionsParam sets the carousel-wide default for
// whether an outdated object version may be presented while a newer
// version is being reassembled.
type DefaultPermitOutdatedVersionsParam struct {
	Permit bool
}

func (DefaultPermitOutdatedVersionsParam) Kind() DirParamKind { return DirParamDefaultPermitOutdatedVersions }
func (DefaultPermitOutdatedVersionsParam) paramID() uint8     { return idDirPermitOutdated }
func (d DefaultPermitOutdatedVersionsParam) encodePayload() ([]byte, error) {
	if d.Permit {
		return []byte{0x01}, nil
	}
	return []byte{0x00}, nil
}

func decodeDefaultPermitOutdatedVersions(data []byte) (DirectoryParameter, error) {
	if len(data) != 1 {
		return nil, newError(KindMalformedParameter, "DefaultPermitOutdatedVersions payload must be 1 byte, got %d", len(data))
	}
	return DefaultPermitOutdatedVersionsParam{Permit: data[0] != 0}, nil
}

// DefaultRelativeExpirationParam sets the carousel-wide default expiration
// for objects that do not carry their own Expiration parameter.
type DefaultRelativeExpirationParam struct {
	Offset time.Duration
}

func (DefaultRelativeExpirationParam) Kind() DirParamKind { return DirParamDefaultRelativeExpiration }
func (DefaultRelativeExpirationParam) paramID() uint8     { return idDirExpiration }
func (d DefaultRelativeExpirationParam) encodePayload() ([]byte, error) {
	return encodeRelativeTime(d.Offset)
}

// DefaultAbsoluteExpirationParam is the absolute-time form of the same
// carousel-wide default.
type DefaultAbsoluteExpirationParam struct {
	Timepoint *time.Time
}

func (DefaultAbsoluteExpirationParam) Kind() DirParamKind { return DirParamDefaultAbsoluteExpiration }
func (DefaultAbsoluteExpirationParam) paramID() uint8     { return idDirExpiration }
func (d DefaultAbsoluteExpirationParam) encodePayload() ([]byte, error) {
	return encodeAbsoluteTime(d.Timepoint), nil
}

func decodeDefaultExpiration(data []byte) (DirectoryParameter, error) {
	switch len(data) {
	case 1:
		offset, err := decodeRelativeTime(data)
		if err != nil {
			return nil, err
		}
		return DefaultRelativeExpirationParam{Offset: offset}, nil
	case 4, 6:
		t, err := decodeAbsoluteTime(data)
		if err != nil {
			return nil, err
		}
		return DefaultAbsoluteExpirationParam{Timepoint: t}, nil
	default:
		return nil, newError(KindMalformedParameter, "unknown payload length for default expiration parameter: %d bytes", len(data))
	}
}

// SortedHeaderInformationParam is a zero-length marker signalling that
// directory header entries are sorted by ContentName.
type SortedHeaderInformationParam struct{}

func (SortedHeaderInformationParam) Kind() DirParamKind { return DirParamSortedHeaderInformation }
func (SortedHeaderInformationParam) paramID() uint8     { return idDirSortedHeaderInfo }
func (SortedHeaderInformationParam) encodePayload() ([]byte, error) {
	return nil, nil
}

func decodeSortedHeaderInformation(data []byte) (DirectoryParameter, error) {
	if len(data) != 0 {
		return nil, newError(KindMalformedParameter, "SortedHeaderInformation payload must be empty, got %d bytes", len(data))
	}
	return SortedHeaderInformationParam{}, nil
}
