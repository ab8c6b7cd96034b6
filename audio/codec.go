package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Container identifies an encoded payload by its leading magic bytes.
type Container int

const (
	// ContainerUnknown is anything without a recognized header.
	ContainerUnknown Container = iota
	// ContainerWAV is a RIFF/WAVE file.
	ContainerWAV
	// ContainerOgg is an Ogg stream, expected to carry Opus.
	ContainerOgg
)

// String returns the container name.
func (c Container) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// sniffLen is enough bytes to tell RIFF/WAVE from OggS.
const sniffLen = 12

// Sniff classifies a payload from its header.
func Sniff(header []byte) Container {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return ContainerWAV
	case len(header) >= 4 && bytes.Equal(header[0:4], []byte("OggS")):
		return ContainerOgg
	default:
		return ContainerUnknown
	}
}

// Decoder turns encoded payloads into Buffers. WAV and Ogg/Opus are decoded in
// process; other containers are handed to FFmpeg when one is configured.
type Decoder struct {
	ffmpeg *FFmpegDecoder
}

// NewDecoder creates a decoder. A nil ffmpeg disables decoding of containers
// other than WAV and Ogg/Opus.
func NewDecoder(ffmpeg *FFmpegDecoder) *Decoder {
	return &Decoder{ffmpeg: ffmpeg}
}

// Decode decodes an in-memory payload.
func (d *Decoder) Decode(ctx context.Context, data []byte) (*Buffer, error) {
	container := Sniff(data)

	logrus.WithFields(logrus.Fields{
		"function":  "Decoder.Decode",
		"container": container.String(),
		"size":      len(data),
	}).Debug("Decoding audio payload")

	switch container {
	case ContainerWAV:
		return DecodeWAV(bytes.NewReader(data))
	case ContainerOgg:
		return DecodeOggOpus(bytes.NewReader(data))
	}
	if d.ffmpeg == nil {
		return nil, fmt.Errorf("%w: no decoder for %d-byte payload", ErrUnsupportedFormat, len(data))
	}
	return d.ffmpeg.DecodeReader(ctx, bytes.NewReader(data))
}

// DecodeFile decodes a file on disk. The file handle is closed before return.
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s is empty", ErrDecodeFailed, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	container := Sniff(header[:n])

	logrus.WithFields(logrus.Fields{
		"function":  "Decoder.DecodeFile",
		"path":      path,
		"container": container.String(),
	}).Debug("Decoding audio file")

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}

	switch container {
	case ContainerWAV:
		return DecodeWAV(f)
	case ContainerOgg:
		return DecodeOggOpus(f)
	}
	if d.ffmpeg == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return d.ffmpeg.DecodeFile(ctx, path)
}
