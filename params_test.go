package mot

import (
	"bytes"
	"testing"
	"time"
)

func encodeParam(t *testing.T, p HeaderParameter) []byte {
	t.Helper()
	data, err := EncodeHeaderParameter(p)
	if err != nil {
		t.Fatalf("EncodeHeaderParameter(%v): %v", p, err)
	}
	return data
}

func TestHeaderParameterWireVectors(t *testing.T) {
	tests := []struct {
		name string
		p    HeaderParameter
		want []byte
	}{
		{
			"RelativeExpiration 5 minutes",
			RelativeExpirationParam{Offset: 5 * time.Minute},
			[]byte{0x44, 0x02},
		},
		{
			"AbsoluteExpiration short form",
			AbsoluteExpirationParam{Timepoint: timePtr(time.Date(2010, time.August, 11, 12, 34, 0, 0, time.UTC))},
			[]byte{0x84, 0xB6, 0x1E, 0xC3, 0x22},
		},
		{
			"AbsoluteExpiration long form",
			AbsoluteExpirationParam{Timepoint: timePtr(time.Date(2010, time.August, 11, 12, 34, 11, 678*int(time.Millisecond), time.UTC))},
			[]byte{0xC4, 0x06, 0xB6, 0x1E, 0xCB, 0x22, 0x2E, 0xA6},
		},
		{
			"Compression GZIP",
			CompressionParam{Type: CompressionGZIP},
			[]byte{0x51, 0x01},
		},
		{
			"Priority",
			PriorityParam{Value: 4},
			[]byte{0x4A, 0x04},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeParam(t, tt.p)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encode = % X, want % X", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestHeaderParameterRoundTrip(t *testing.T) {
	tests := []HeaderParameter{
		ContentNameParam{Charset: CharsetISOLatin1, Name: []byte("weather.jpg")},
		MimeTypeParam{Name: []byte("image/jpeg")},
		CompressionParam{Type: CompressionGZIP},
		PriorityParam{Value: 200},
		RelativeExpirationParam{Offset: 45 * time.Minute},
		AbsoluteExpirationParam{Timepoint: nil},
	}
	for _, p := range tests {
		data := encodeParam(t, p)
		r := NewBitReader(data)
		got, err := DecodeHeaderParameter(r)
		if err != nil {
			t.Fatalf("DecodeHeaderParameter(%v): %v", p, err)
		}
		if got.Kind() != p.Kind() {
			t.Errorf("Kind() = %v, want %v", got.Kind(), p.Kind())
		}
	}
}

func TestDecodeHeaderParameterUnknownID(t *testing.T) {
	// PLI=1 (1-byte payload), ParamId=63 (unassigned)
	data := []byte{0x7F, 0xAA}
	r := NewBitReader(data)
	_, err := DecodeHeaderParameter(r)
	if !IsErrUnknownHeaderParameter(err) {
		t.Fatalf("expected UnknownHeaderParameter, got %v", err)
	}
	me := err.(*Error)
	if me.ParamID != 63 {
		t.Errorf("ParamID = %d, want 63", me.ParamID)
	}
	if !bytes.Equal(me.Raw, data) {
		t.Errorf("Raw = % X, want % X", me.Raw, data)
	}
	if r.Pos() != uint(len(data)*8) {
		t.Errorf("reader left at bit %d, want %d (past the unknown parameter)", r.Pos(), len(data)*8)
	}
}

func TestContentNameRoundTrip(t *testing.T) {
	p := ContentNameParam{Charset: CharsetEBULatin, Name: []byte("news.txt")}
	data := encodeParam(t, p)
	r := NewBitReader(data)
	decoded, err := DecodeHeaderParameter(r)
	if err != nil {
		t.Fatalf("DecodeHeaderParameter: %v", err)
	}
	got, ok := decoded.(ContentNameParam)
	if !ok {
		t.Fatalf("decoded value is %T, not ContentNameParam", decoded)
	}
	if got.Charset != p.Charset || !bytes.Equal(got.Name, p.Name) {
		t.Errorf("got %+v, want %+v", got, p)
	}
}

func TestDecodeExpirationAmbiguousLength(t *testing.T) {
	if _, err := decodeExpiration([]byte{0x01, 0x02, 0x03}); !IsErrMalformedParameter(err) {
		t.Errorf("expected MalformedParameter for 3-byte expiration payload, got %v", err)
	}
}
