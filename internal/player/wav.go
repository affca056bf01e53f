package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"
)

// WAV container layout constants.
const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	riffMagic       = "RIFF"
	waveMagic       = "WAVE"
	fmtChunkID      = "fmt "
	dataChunkID     = "data"
)

// Static errors.
var (
	// ErrNotWAV indicates the file does not start with a RIFF/WAVE header.
	ErrNotWAV = errors.New("not a wav file")
	// ErrMalformedWAV indicates a truncated or inconsistent container.
	ErrMalformedWAV = errors.New("malformed wav file")
)

// ProbeWAVDuration reads a local PCM WAV file's header and derives its
// playback duration from the data chunk size and the byte rate declared in
// the format chunk.
func ProbeWAVDuration(src string) (time.Duration, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", src, err)
	}

	return wavDuration(data)
}

// wavDuration walks the RIFF chunk list looking for the format and data
// chunks.
func wavDuration(data []byte) (time.Duration, error) {
	if len(data) < riffHeaderSize {
		return 0, ErrNotWAV
	}

	if string(data[0:4]) != riffMagic || string(data[8:12]) != waveMagic {
		return 0, ErrNotWAV
	}

	var (
		byteRate uint32
		dataSize uint32
		haveFmt  bool
		haveData bool
	)

	offset := riffHeaderSize

	for offset+chunkHeaderSize <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + chunkHeaderSize

		switch chunkID {
		case fmtChunkID:
			// Byte rate sits at offset 8 of the format chunk.
			if int(chunkSize) < 12 || body+12 > len(data) {
				return 0, ErrMalformedWAV
			}

			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			haveFmt = true
		case dataChunkID:
			dataSize = chunkSize
			haveData = true
		}

		if haveFmt && haveData {
			break
		}

		// Chunks are word-aligned.
		offset = body + int(chunkSize)
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || !haveData || byteRate == 0 {
		return 0, ErrMalformedWAV
	}

	seconds := float64(dataSize) / float64(byteRate)

	return time.Duration(seconds * float64(time.Second)), nil
}
