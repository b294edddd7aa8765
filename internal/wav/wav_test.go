package wav

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeHeader(t *testing.T) {
	data := Encode(make([]float32, 1600), 16000, 1)

	if len(data) != 44+1600*BytesPerSample {
		t.Fatalf("unexpected size: %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE header")
	}
	if sr := binary.LittleEndian.Uint32(data[24:28]); sr != 16000 {
		t.Errorf("sample rate: got %d, want 16000", sr)
	}
	if ch := binary.LittleEndian.Uint16(data[22:24]); ch != 1 {
		t.Errorf("channels: got %d, want 1", ch)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != BitsPerSample {
		t.Errorf("bits per sample: got %d, want %d", bits, BitsPerSample)
	}
	if dl := binary.LittleEndian.Uint32(data[40:44]); dl != 1600*BytesPerSample {
		t.Errorf("data length: got %d, want %d", dl, 1600*BytesPerSample)
	}
}

func TestEncodeClampsSamples(t *testing.T) {
	data := Encode([]float32{2.0, -2.0}, 16000, 1)
	pcm := data[44:]

	if v := int16(binary.LittleEndian.Uint16(pcm[0:2])); v != 32767 {
		t.Errorf("positive clip: got %d, want 32767", v)
	}
	if v := int16(binary.LittleEndian.Uint16(pcm[2:4])); v != -32767 {
		t.Errorf("negative clip: got %d, want -32767", v)
	}
}

func TestEncodeEmpty(t *testing.T) {
	data := Encode(nil, 16000, 1)
	if len(data) != 44 {
		t.Fatalf("empty encode should be header only, got %d bytes", len(data))
	}
	if dl := binary.LittleEndian.Uint32(data[40:44]); dl != 0 {
		t.Errorf("data length: got %d, want 0", dl)
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(make([]float32, 16000), 16000, 1); d != time.Second {
		t.Errorf("got %v, want 1s", d)
	}
	if d := Duration(make([]float32, 8000), 16000, 1); d != 500*time.Millisecond {
		t.Errorf("got %v, want 500ms", d)
	}
	if d := Duration(nil, 16000, 1); d != 0 {
		t.Errorf("got %v, want 0", d)
	}
}
