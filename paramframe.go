package mot

/*
Every parameter — header or directory — is framed as a 2-bit PLI (Parameter
Length Indicator) plus a 6-bit ParamId preamble, followed by that many
payload bytes. See spec.md §4.1 for the full table.

HeaderParameter and DirectoryParameter share this decode path, but their
encode-side length thresholds diverge for payloads of 2 or 3 bytes (a
4-byte payload uses PLI=2 in both families): a HeaderParameter only uses the 1-byte PLI=2 form when the payload
is *exactly* 4 bytes (2- and 3-byte payloads fall through to the PLI=3
short form instead), whereas a DirectoryParameter uses PLI=2 for any
payload of up to 4 bytes without padding it out — a grammar divergence
observed in original_source and preserved here per spec.md §9/§4.1.
*/

const (
	maxShortParamPayload = 127
	maxLongParamPayload  = 32770
)

func encodeHeaderParamFrame(id uint8, payload []byte) ([]byte, error) {
	n := len(payload)
	w := NewBitWriter()
	switch {
	case n == 0:
		w.WriteBits(0, 2)
		w.WriteBits(uint64(id), 6)
	case n == 1:
		w.WriteBits(1, 2)
		w.WriteBits(uint64(id), 6)
	case n == 4:
		w.WriteBits(2, 2)
		w.WriteBits(uint64(id), 6)
	case n <= maxShortParamPayload:
		w.WriteBits(3, 2)
		w.WriteBits(uint64(id), 6)
		w.WriteBits(0, 1) // Ext=0
		w.WriteBits(uint64(n), 7)
	case n <= maxLongParamPayload:
		w.WriteBits(3, 2)
		w.WriteBits(uint64(id), 6)
		w.WriteBits(1, 1) // Ext=1
		w.WriteBits(uint64(n), 15)
	default:
		return nil, newError(KindOutOfRange, "header parameter payload of %d bytes exceeds maximum of %d", n, maxLongParamPayload)
	}
	w.WriteBytes(payload)
	return w.Bytes(), nil
}

func encodeDirectoryParamFrame(id uint8, payload []byte) ([]byte, error) {
	n := len(payload)
	w := NewBitWriter()
	switch {
	case n == 0:
		w.WriteBits(0, 2)
		w.WriteBits(uint64(id), 6)
	case n == 1:
		w.WriteBits(1, 2)
		w.WriteBits(uint64(id), 6)
	case n <= 4:
		w.WriteBits(2, 2)
		w.WriteBits(uint64(id), 6)
	case n <= maxShortParamPayload:
		w.WriteBits(3, 2)
		w.WriteBits(uint64(id), 6)
		w.WriteBits(0, 1)
		w.WriteBits(uint64(n), 7)
	case n <= maxLongParamPayload:
		w.WriteBits(3, 2)
		w.WriteBits(uint64(id), 6)
		w.WriteBits(1, 1)
		w.WriteBits(uint64(n), 15)
	default:
		return nil, newError(KindOutOfRange, "directory parameter payload of %d bytes exceeds maximum of %d", n, maxLongParamPayload)
	}
	w.WriteBytes(payload)
	return w.Bytes(), nil
}

// readParamFrame reads one PLI-framed parameter from r, positioned at the
// start of the preamble, and returns its id and raw payload. It leaves r
// positioned just past the payload.
func readParamFrame(r *BitReader) (id uint8, payload []byte, err error) {
	pli, err := r.ReadBits(2)
	if err != nil {
		return 0, nil, newError(KindMalformedParameter, "reading PLI: %v", err)
	}
	rawID, err := r.ReadBits(6)
	if err != nil {
		return 0, nil, newError(KindMalformedParameter, "reading ParamId: %v", err)
	}
	id = uint8(rawID)

	var length int
	switch pli {
	case 0:
		length = 0
	case 1:
		length = 1
	case 2:
		length = 4
	case 3:
		ext, err := r.ReadBits(1)
		if err != nil {
			return 0, nil, newError(KindMalformedParameter, "reading Ext bit for param %d: %v", id, err)
		}
		if ext == 1 {
			n, err := r.ReadBits(15)
			if err != nil {
				return 0, nil, newError(KindMalformedParameter, "reading long length for param %d: %v", id, err)
			}
			length = int(n)
		} else {
			n, err := r.ReadBits(7)
			if err != nil {
				return 0, nil, newError(KindMalformedParameter, "reading short length for param %d: %v", id, err)
			}
			length = int(n)
		}
	}

	if r.Remaining() < length*8 {
		return 0, nil, newError(KindMalformedParameter, "param %d declares %d bytes but only %d remain", id, length, r.Remaining()/8)
	}
	payload, err = r.ReadBytes(length)
	if err != nil {
		return 0, nil, newError(KindMalformedParameter, "reading payload for param %d: %v", id, err)
	}
	return id, payload, nil
}
