// Package wav encodes recorded PCM samples into WAV files.
package wav

import (
	"bytes"
	"encoding/binary"
	"time"
)

const (
	// BytesPerSample - LINEAR16, 2 bytes per sample.
	BytesPerSample = 2
	// BitsPerSample - LINEAR16 bit depth.
	BitsPerSample = 16
	// pcmFormat - WAV PCM format tag.
	pcmFormat = 1

	// MIMEType - content type of a finished recording.
	MIMEType = "audio/wav"
)

// Encode converts float32 samples to a complete WAV file
// (int16 little-endian PCM with a RIFF header).
func Encode(samples []float32, sampleRate, channels int) []byte {
	pcm := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		// Clamp before converting: mic input can spike past [-1, 1].
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(pcm[i*BytesPerSample:], uint16(v))
	}

	var buf bytes.Buffer
	bps := sampleRate * channels * BytesPerSample

	buf.Write([]byte("RIFF"))
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.Write([]byte("WAVE"))

	buf.Write([]byte("fmt "))
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(pcmFormat))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(bps))
	binary.Write(&buf, binary.LittleEndian, uint16(BytesPerSample*channels))
	binary.Write(&buf, binary.LittleEndian, uint16(BitsPerSample))

	buf.Write([]byte("data"))
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// Duration returns the playing time of the given samples.
func Duration(samples []float32, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	frames := len(samples) / channels
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
