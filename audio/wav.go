package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

// ExportBitDepth is the PCM bit depth written by EncodeWAV.
const ExportBitDepth = 16

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// DecodeWAV decodes a RIFF/WAVE stream of integer PCM.
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav header", ErrDecodeFailed)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: read wav pcm: %v", ErrDecodeFailed, err)
	}
	if pcm.Format == nil {
		return nil, fmt.Errorf("%w: wav missing format chunk", ErrDecodeFailed)
	}

	bitDepth := int(d.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported wav bit depth %d", ErrDecodeFailed, bitDepth)
	}

	buf, err := NewBuffer(fromInts(pcm.Data, bitDepth), pcm.Format.NumChannels, uint32(pcm.Format.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "DecodeWAV",
		"channels":    buf.Channels,
		"sample_rate": buf.SampleRate,
		"bit_depth":   bitDepth,
		"frames":      buf.Frames(),
	}).Debug("Decoded wav payload")

	return buf, nil
}

// EncodeWAV writes the buffer as 16-bit PCM WAV. Samples outside [-1, 1] are
// clipped and the clip count is logged.
func EncodeWAV(w io.WriteSeeker, buf *Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	pcm, clipped := ToInt16(buf.Samples)
	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(w, int(buf.SampleRate), ExportBitDepth, buf.Channels, wavFormatPCM)
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: buf.Channels, SampleRate: int(buf.SampleRate)},
		Data:           data,
		SourceBitDepth: ExportBitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}

	if clipped > 0 {
		logrus.WithFields(logrus.Fields{
			"function":      "EncodeWAV",
			"clipped_count": clipped,
			"total_samples": len(pcm),
		}).Warn("Audio clipping detected during wav export")
	}
	return nil
}

// WriteWAVFile writes the buffer to path, replacing any existing file.
func WriteWAVFile(path string, buf *Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return EncodeWAV(f, buf)
}

// EncodeWAVBytes encodes the buffer to an in-memory WAV file.
func EncodeWAVBytes(buf *Buffer) ([]byte, error) {
	ws := &memWriteSeeker{}
	if err := EncodeWAV(ws, buf); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// memWriteSeeker is the minimal io.WriteSeeker the wav encoder needs to
// patch its header sizes after writing samples.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.New("invalid whence")
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = int(next)
	return next, nil
}
