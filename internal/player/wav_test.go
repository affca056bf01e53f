package player

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV assembles a minimal PCM WAV container with the given byte rate
// and data chunk size.
func buildWAV(t *testing.T, byteRate, dataSize uint32) []byte {
	t.Helper()

	var out []byte

	out = append(out, []byte(riffMagic)...)
	out = binary.LittleEndian.AppendUint32(out, 36+dataSize)
	out = append(out, []byte(waveMagic)...)

	out = append(out, []byte(fmtChunkID)...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, 1) // mono
	out = binary.LittleEndian.AppendUint32(out, byteRate/2)
	out = binary.LittleEndian.AppendUint32(out, byteRate)
	out = binary.LittleEndian.AppendUint16(out, 2)
	out = binary.LittleEndian.AppendUint16(out, 16)

	out = append(out, []byte(dataChunkID)...)
	out = binary.LittleEndian.AppendUint32(out, dataSize)
	out = append(out, make([]byte, dataSize)...)

	return out
}

func TestWAVDuration(t *testing.T) {
	t.Parallel()

	// 88200 bytes per second, 176400 bytes of data: two seconds.
	data := buildWAV(t, 88200, 176400)

	duration, err := wavDuration(data)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, duration)
}

func TestWAVDuration_NotWAV(t *testing.T) {
	t.Parallel()

	_, err := wavDuration([]byte("this is not audio at all"))
	require.ErrorIs(t, err, ErrNotWAV)

	_, err = wavDuration([]byte("RIFF"))
	require.ErrorIs(t, err, ErrNotWAV)
}

func TestWAVDuration_MissingChunks(t *testing.T) {
	t.Parallel()

	// A valid RIFF/WAVE header with no chunks at all.
	var out []byte

	out = append(out, []byte(riffMagic)...)
	out = binary.LittleEndian.AppendUint32(out, 4)
	out = append(out, []byte(waveMagic)...)

	_, err := wavDuration(out)
	require.ErrorIs(t, err, ErrMalformedWAV)
}

func TestProbeWAVDuration_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "probe.wav")

	err := os.WriteFile(path, buildWAV(t, 44100, 44100), 0o600)
	require.NoError(t, err)

	duration, err := ProbeWAVDuration(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, duration)
}

func TestProbeWAVDuration_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ProbeWAVDuration(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}
