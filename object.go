package mot

import "fmt"

/*
MotObject aggregates a named payload with its content type, transport id
and parameter set (spec.md §3). It is built by the caller on the encode
path or by the reassembler on the decode path; once emitted it is treated
as immutable even though nothing prevents further mutation — the cache
never reuses one after Remove (spec.md §5).
*/
type MotObject struct {
	transportID uint16
	contentType ContentType
	body        []byte
	parameters  map[ParamKind]HeaderParameter
}

// NewMotObject constructs an object with the required ContentName
// parameter already attached. transportID is caller-supplied; use
// NewMotObjectWithGeneratedID to derive one from name instead.
func NewMotObject(name []byte, charset Charset, body []byte, contentType ContentType, transportID uint16) *MotObject {
	o := &MotObject{
		transportID: transportID,
		contentType: contentType,
		body:        body,
		parameters:  make(map[ParamKind]HeaderParameter, 4),
	}
	o.AddParameter(ContentNameParam{Charset: charset, Name: name})
	return o
}

// NewMotObjectWithGeneratedID derives the transport id from name via gen
// (DefaultTransportIDGenerator if nil), per "if no transport_id is
// supplied it is derived deterministically from the name" (spec.md §3).
func NewMotObjectWithGeneratedID(name []byte, charset Charset, body []byte, contentType ContentType, gen func([]byte) uint16) *MotObject {
	if gen == nil {
		gen = DefaultTransportIDGenerator
	}
	return NewMotObject(name, charset, body, contentType, gen(name))
}

// AddParameter attaches p, replacing any existing parameter of the same
// Kind. ContentName is required but not otherwise special-cased here.
func (o *MotObject) AddParameter(p HeaderParameter) {
	o.parameters[p.Kind()] = p
}

// GetParameter returns the parameter of kind k, if present.
func (o *MotObject) GetParameter(k ParamKind) (HeaderParameter, bool) {
	p, ok := o.parameters[k]
	return p, ok
}

// HasParameter reports whether a parameter of kind k is attached.
func (o *MotObject) HasParameter(k ParamKind) bool {
	_, ok := o.parameters[k]
	return ok
}

// RemoveParameter detaches the parameter of kind k, if any.
func (o *MotObject) RemoveParameter(k ParamKind) {
	delete(o.parameters, k)
}

// Parameters returns all attached parameters in no particular order.
func (o *MotObject) Parameters() []HeaderParameter {
	out := make([]HeaderParameter, 0, len(o.parameters))
	for _, p := range o.parameters {
		out = append(out, p)
	}
	return out
}

// TransportID returns the object's stable 16-bit identity.
func (o *MotObject) TransportID() uint16 {
	return o.transportID
}

// ContentType returns the object's (type, subtype) content type.
func (o *MotObject) ContentType() ContentType {
	return o.contentType
}

// Body returns the object's payload bytes, which may be empty.
func (o *MotObject) Body() []byte {
	return o.body
}

// SetBody replaces the object's payload bytes.
func (o *MotObject) SetBody(body []byte) {
	o.body = body
}

// Name returns the ContentName payload bytes, or nil if none is attached.
func (o *MotObject) Name() []byte {
	p, ok := o.GetParameter(ParamContentName)
	if !ok {
		return nil
	}
	return p.(ContentNameParam).Name
}

func (o *MotObject) String() string {
	return fmt.Sprintf("%s [%d]", o.Name(), o.transportID)
}
