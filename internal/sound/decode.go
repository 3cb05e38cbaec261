package sound

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Clip is a decoded audio clip. The raw bytes are kept because OS players
// read from files rather than PCM buffers.
type Clip struct {
	data     []byte
	format   Format
	duration time.Duration
	digest   string
}

// Format implements Buffer.
func (c *Clip) Format() Format { return c.format }

// Duration implements Buffer.
func (c *Clip) Duration() time.Duration { return c.duration }

// Digest returns a content hash identifying the clip's bytes.
func (c *Clip) Digest() string { return c.digest }

// Decode recognizes the container in data and, for WAV, validates the header
// and computes the duration. Unrecognized or malformed data yields a
// *DecodeError.
func Decode(data []byte) (*Clip, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty data"}
	}

	format, err := sniff(data)
	if err != nil {
		return nil, err
	}

	clip := &Clip{data: data, format: format}
	if format == FormatWAV {
		info, err := parseWAV(data)
		if err != nil {
			return nil, err
		}
		clip.duration = info.duration()
	}

	sum := sha256.Sum256(data)
	clip.digest = hex.EncodeToString(sum[:])
	return clip, nil
}

// sniff identifies the container from its magic bytes.
func sniff(data []byte) (Format, error) {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV, nil
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3, nil
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return FormatMP3, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOGG, nil
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC, nil
	default:
		return "", &DecodeError{Reason: "unrecognized audio format"}
	}
}
