package mot

import "fmt"

/*
ContentType is the (type, subtype) pair identifying the payload format of
an MotObject, as per ETSI TS 101 756 v1.3.1 (2006-02). Type is 6 bits,
Subtype is 9 bits; equality is structural, so a ContentType is a plain
value, not a pointer.
*/
type ContentType struct {
	Type    uint8
	Subtype uint16
}

func (c ContentType) String() string {
	return fmt.Sprintf("[%d:%d]", c.Type, c.Subtype)
}

const (
	maxContentTypeWidth    = 1<<6 - 1
	maxContentSubtypeWidth = 1<<9 - 1
)

// valid reports whether both fields fit their declared bit widths.
func (c ContentType) valid() bool {
	return c.Type <= maxContentTypeWidth && c.Subtype <= maxContentSubtypeWidth
}

// The fixed content type enumeration from ETSI TS 101 756, carried over in
// full from original_source (which spec.md's distillation only describes
// structurally as "a fixed enumeration").
var (
	// General Data
	GeneralObjectTransfer = ContentType{0, 0}
	GeneralMimeHTTP       = ContentType{0, 1}

	// Text
	TextASCII = ContentType{1, 0}
	TextISO   = ContentType{1, 1}
	TextHTML  = ContentType{1, 2}

	// Image
	ImageGIF  = ContentType{2, 0}
	ImageJFIF = ContentType{2, 1}
	ImageBMP  = ContentType{2, 2}
	ImagePNG  = ContentType{2, 3}

	// Audio
	AudioMPEG1L1 = ContentType{3, 0}
	AudioMPEG1L2 = ContentType{3, 1}
	AudioMPEG1L3 = ContentType{3, 2}
	AudioMPEG2L1 = ContentType{3, 3}
	AudioMPEG2L2 = ContentType{3, 4}
	AudioMPEG2L3 = ContentType{3, 5}
	AudioPCM     = ContentType{3, 6}
	AudioAIFF    = ContentType{3, 7}
	AudioATRAC   = ContentType{3, 8}
	AudioATRAC2  = ContentType{3, 9}
	AudioMPEG4   = ContentType{3, 10}

	// Video
	VideoMPEG1 = ContentType{4, 0}
	VideoMPEG2 = ContentType{4, 1}
	VideoMPEG4 = ContentType{4, 2}
	VideoH263  = ContentType{4, 3}

	// MOT Transport
	MotHeaderUpdate = ContentType{5, 0}

	// System
	SystemMHEG = ContentType{6, 0}
	SystemJava = ContentType{6, 1}
)
