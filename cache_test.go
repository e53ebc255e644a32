package mot

import (
	"bytes"
	"testing"
)

func buildHeaderBytes(t *testing.T, name []byte, body []byte, contentType ContentType, extra ...HeaderParameter) []byte {
	t.Helper()
	var paramBytes []byte
	cn, err := EncodeHeaderParameter(ContentNameParam{Charset: CharsetISOLatin1, Name: name})
	if err != nil {
		t.Fatalf("EncodeHeaderParameter: %v", err)
	}
	paramBytes = append(paramBytes, cn...)
	for _, p := range extra {
		b, err := EncodeHeaderParameter(p)
		if err != nil {
			t.Fatalf("EncodeHeaderParameter: %v", err)
		}
		paramBytes = append(paramBytes, b...)
	}
	core := HeaderCore{
		BodySize:    uint32(len(body)),
		HeaderSize:  uint16(headerCoreBytes + len(paramBytes)),
		ContentType: contentType,
	}
	return append(core.Encode(), paramBytes...)
}

func TestReassemblerHeaderMode(t *testing.T) {
	name := []byte("a.txt")
	body := []byte("hello carousel")
	headerBytes := buildHeaderBytes(t, name, body, TextASCII)

	re := NewReassembler(nil)
	re.Push(StaticDatagroup{TID: 1, Typ: DatagroupHeader, Segment: 0, IsLast: true, Payload: headerBytes})
	re.Push(StaticDatagroup{TID: 1, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: body})

	obj, ok := re.Next()
	if !ok {
		t.Fatal("expected a completed object")
	}
	if !bytes.Equal(obj.Name(), name) {
		t.Errorf("Name() = %q, want %q", obj.Name(), name)
	}
	if !bytes.Equal(obj.Body(), body) {
		t.Errorf("Body() = %q, want %q", obj.Body(), body)
	}
	if obj.ContentType() != TextASCII {
		t.Errorf("ContentType() = %v, want %v", obj.ContentType(), TextASCII)
	}
	if _, ok := re.Next(); ok {
		t.Error("expected no further objects ready")
	}
}

func TestReassemblerMultiSegmentBody(t *testing.T) {
	name := []byte("b.bin")
	part0 := []byte("first-half-")
	part1 := []byte("second-half")
	headerBytes := buildHeaderBytes(t, name, append(part0, part1...), ImagePNG)

	re := NewReassembler(nil)
	re.Push(StaticDatagroup{TID: 2, Typ: DatagroupBody, Segment: 1, IsLast: true, Payload: part1})
	re.Push(StaticDatagroup{TID: 2, Typ: DatagroupHeader, Segment: 0, IsLast: true, Payload: headerBytes})

	if _, ok := re.Next(); ok {
		t.Fatal("object should not be complete before segment 0 of the body arrives")
	}

	re.Push(StaticDatagroup{TID: 2, Typ: DatagroupBody, Segment: 0, IsLast: false, Payload: part0})

	obj, ok := re.Next()
	if !ok {
		t.Fatal("expected object to complete once both body segments arrived")
	}
	if !bytes.Equal(obj.Body(), append(part0, part1...)) {
		t.Errorf("Body() = %q", obj.Body())
	}
}

func TestReassemblerDirectoryMode(t *testing.T) {
	name := []byte("c.jpg")
	body := []byte("jpegbytes")
	obj := NewMotObject(name, CharsetISOLatin1, body, ImageJFIF, 7)

	dirBytes, err := NewDirectoryEncoder().Add(obj).Encode()
	if err != nil {
		t.Fatalf("DirectoryEncoder.Encode: %v", err)
	}

	re := NewReassembler(nil)
	re.Push(StaticDatagroup{TID: 0, Typ: DatagroupDirectory, Segment: 0, IsLast: true, Payload: dirBytes})
	re.Push(StaticDatagroup{TID: 7, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: body})

	got, ok := re.Next()
	if !ok {
		t.Fatal("expected object compiled from directory metadata")
	}
	if !bytes.Equal(got.Name(), name) {
		t.Errorf("Name() = %q, want %q", got.Name(), name)
	}
	if got.ContentType() != ImageJFIF {
		t.Errorf("ContentType() = %v, want %v", got.ContentType(), ImageJFIF)
	}
}

func TestReassemblerCompressedBody(t *testing.T) {
	// The reassembler never decompresses on the caller's behalf (spec.md
	// §10.6/§13): it emits the body exactly as carried on the wire, still
	// tagged with its Compression parameter, and leaves DecompressBody an
	// opt-in call for whoever consumes the object.
	name := []byte("d.txt")
	plain := []byte("repeated repeated repeated repeated text")
	compressed, err := CompressBody(CompressionGZIP, plain)
	if err != nil {
		t.Fatalf("CompressBody: %v", err)
	}
	headerBytes := buildHeaderBytes(t, name, compressed, TextASCII, CompressionParam{Type: CompressionGZIP})

	re := NewReassembler(nil)
	re.Push(StaticDatagroup{TID: 3, Typ: DatagroupHeader, Segment: 0, IsLast: true, Payload: headerBytes})
	re.Push(StaticDatagroup{TID: 3, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: compressed})

	got, ok := re.Next()
	if !ok {
		t.Fatal("expected a completed object")
	}
	if !bytes.Equal(got.Body(), compressed) {
		t.Errorf("Body() = %q, want the still-compressed wire body %q", got.Body(), compressed)
	}
	cp, ok := got.GetParameter(ParamCompression)
	if !ok {
		t.Fatal("expected the Compression parameter to survive onto the emitted object")
	}
	if cp.(CompressionParam).Type != CompressionGZIP {
		t.Errorf("Compression.Type = %v, want %v", cp.(CompressionParam).Type, CompressionGZIP)
	}

	decompressed, err := DecompressBody(cp.(CompressionParam).Type, got.Body())
	if err != nil {
		t.Fatalf("DecompressBody: %v", err)
	}
	if !bytes.Equal(decompressed, plain) {
		t.Errorf("DecompressBody() = %q, want %q", decompressed, plain)
	}
}

func TestReassemblerMissingContentNameIsDropped(t *testing.T) {
	body := []byte("x")
	core := HeaderCore{BodySize: uint32(len(body)), HeaderSize: headerCoreBytes, ContentType: TextASCII}
	headerBytes := core.Encode()

	re := NewReassembler(nil)
	re.Push(StaticDatagroup{TID: 4, Typ: DatagroupHeader, Segment: 0, IsLast: true, Payload: headerBytes})
	re.Push(StaticDatagroup{TID: 4, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: body})

	if _, ok := re.Next(); ok {
		t.Fatal("object without a ContentName parameter must not be emitted")
	}
}

func TestReassemblerDrain(t *testing.T) {
	re := NewReassembler(nil)
	for i := uint16(1); i <= 3; i++ {
		name := []byte{byte('a' + i)}
		body := []byte{byte(i)}
		headerBytes := buildHeaderBytes(t, name, body, TextASCII)
		re.Push(StaticDatagroup{TID: i, Typ: DatagroupHeader, Segment: 0, IsLast: true, Payload: headerBytes})
		re.Push(StaticDatagroup{TID: i, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: body})
	}
	count := 0
	re.Drain(func(*MotObject) { count++ })
	if count != 3 {
		t.Errorf("Drain delivered %d objects, want 3", count)
	}
}

func TestReassemblerEntryRemovedOnDelivery(t *testing.T) {
	name := []byte("e.txt")
	body := []byte("x")
	headerBytes := buildHeaderBytes(t, name, body, TextASCII)

	re := NewReassembler(nil)
	re.Push(StaticDatagroup{TID: 9, Typ: DatagroupHeader, Segment: 0, IsLast: true, Payload: headerBytes})
	re.Push(StaticDatagroup{TID: 9, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: body})

	if _, ok := re.Next(); !ok {
		t.Fatal("expected the object to be ready")
	}
	if len(re.cache.objs) != 0 {
		t.Fatalf("cache still holds %d entries after delivery, want 0", len(re.cache.objs))
	}

	// A late-arriving segment for the already-delivered transport id must
	// not resurrect it or queue a second emission.
	re.Push(StaticDatagroup{TID: 9, Typ: DatagroupBody, Segment: 0, IsLast: true, Payload: body})
	if _, ok := re.Next(); ok {
		t.Fatal("expected no further emission for an already-delivered transport id")
	}
	if len(re.cache.objs) != 0 {
		t.Fatalf("late segment resurrected a cache entry: %d entries", len(re.cache.objs))
	}
}

func TestReassemblerMaxSegmentsPerObject(t *testing.T) {
	opt := NewReassemblerOption().SetMaxSegmentsPerObject(2)
	re := NewReassembler(opt)
	re.Push(StaticDatagroup{TID: 1, Typ: DatagroupBody, Segment: 0, Payload: []byte{0x01}})
	re.Push(StaticDatagroup{TID: 1, Typ: DatagroupBody, Segment: 1, Payload: []byte{0x02}})
	re.Push(StaticDatagroup{TID: 1, Typ: DatagroupBody, Segment: 2, IsLast: true, Payload: []byte{0x03}})

	// The third segment exceeded the 2-segment limit and was dropped, so
	// the run never completes even though a Last segment was pushed.
	if _, ok := re.Next(); ok {
		t.Fatal("expected the object to remain incomplete after exceeding the segment limit")
	}
}
