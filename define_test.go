package mot

import "testing"

func Test_serializeBigEndianUint16(t *testing.T) {
	tests := []struct {
		name string
		in   uint16
		want []byte
	}{
		{"zero", 0x0000, []byte{0x00, 0x00}},
		{"max", 0xffff, []byte{0xff, 0xff}},
		{"mixed", 0x0102, []byte{0x01, 0x02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializeBigEndianUint16(tt.in)
			if len(got) != len(tt.want) || got[0] != tt.want[0] || got[1] != tt.want[1] {
				t.Errorf("serializeBigEndianUint16(%#x) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
