package mot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

/*
Codec is the entry type of a registry keyed by the CompressionParam
algorithm tag (spec.md §4.2): DecompressBody and CompressBody run data
through the Codec registered for a tag. The reassembler never calls
them; a caller that reads CompressionParam on an emitted object invokes
DecompressBody itself. GZIP is the only algorithm ETSI TS 101 756 assigns a tag to; the registry
shape still leaves room for a broadcaster-private tag without touching
the reassembler.
*/
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var codecs = map[uint8]Codec{
	CompressionGZIP: gzipCodec{},
}

// RegisterCompressionCodec adds or replaces the codec used for algorithm
// tag typ. Built-in GZIP may be overridden the same way.
func RegisterCompressionCodec(typ uint8, c Codec) {
	codecs[typ] = c
}

// DecompressBody decompresses data using the codec registered for typ.
func DecompressBody(typ uint8, data []byte) ([]byte, error) {
	c, ok := codecs[typ]
	if !ok {
		return nil, newError(KindUnsupportedDataSource, "no codec registered for compression type %d", typ)
	}
	out, err := c.Decompress(data)
	if err != nil {
		return nil, newError(KindMalformedParameter, "decompressing body: %v", err)
	}
	return out, nil
}

// CompressBody compresses data using the codec registered for typ.
func CompressBody(typ uint8, data []byte) ([]byte, error) {
	c, ok := codecs[typ]
	if !ok {
		return nil, newError(KindUnsupportedDataSource, "no codec registered for compression type %d", typ)
	}
	return c.Compress(data)
}

type gzipCodec struct{}

func (gzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}
	return out, nil
}
