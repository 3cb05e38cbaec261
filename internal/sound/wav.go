package sound

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// wavInfo is the subset of a WAV header needed for timing.
type wavInfo struct {
	channels      uint16
	sampleRate    uint32
	byteRate      uint32
	bitsPerSample uint16
	dataSize      uint32
}

func (w wavInfo) duration() time.Duration {
	if w.byteRate == 0 {
		return 0
	}
	return time.Duration(float64(w.dataSize) / float64(w.byteRate) * float64(time.Second))
}

// parseWAV walks the RIFF chunks looking for "fmt " and "data".
func parseWAV(data []byte) (wavInfo, error) {
	var info wavInfo
	var haveFmt, haveData bool

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return info, &DecodeError{Reason: "truncated wav fmt chunk"}
			}
			info.channels = binary.LittleEndian.Uint16(data[body+2:])
			info.sampleRate = binary.LittleEndian.Uint32(data[body+4:])
			info.byteRate = binary.LittleEndian.Uint32(data[body+8:])
			info.bitsPerSample = binary.LittleEndian.Uint16(data[body+14:])
			haveFmt = true
		case "data":
			info.dataSize = size
			// Streams written without a final size report 0 or an oversized value.
			if remaining := uint32(len(data) - body); size == 0 || size > remaining {
				info.dataSize = remaining
			}
			haveData = true
		}

		if haveFmt && haveData {
			break
		}
		next := body + int(size)
		if size%2 == 1 {
			next++
		}
		if next <= pos {
			break
		}
		pos = next
	}

	if !haveFmt {
		return info, &DecodeError{Reason: "wav missing fmt chunk"}
	}
	if !haveData {
		return info, &DecodeError{Reason: "wav missing data chunk"}
	}
	if info.channels == 0 || info.sampleRate == 0 || info.byteRate == 0 {
		return info, &DecodeError{Reason: "wav header has zero channels or rate"}
	}
	return info, nil
}

// toneSampleRate is low because the masking tone sits at 60 Hz.
const toneSampleRate = 8000

// synthesizeTone renders a mono 16-bit PCM WAV sine at frequency Hz.
// gain is clamped to [0,1].
func synthesizeTone(frequency, gain float64, length time.Duration) []byte {
	gain = math.Max(0, math.Min(1, gain))
	samples := int(length.Seconds() * toneSampleRate)
	dataSize := samples * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(toneSampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(toneSampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	amp := gain * math.MaxInt16
	for i := 0; i < samples; i++ {
		v := amp * math.Sin(2*math.Pi*frequency*float64(i)/toneSampleRate)
		_ = binary.Write(&buf, binary.LittleEndian, int16(v))
	}
	return buf.Bytes()
}
