package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
)

// FFmpegDecoder decodes arbitrary containers by running an ffmpeg binary that
// writes signed 16-bit little-endian PCM to stdout.
type FFmpegDecoder struct {
	binary     string
	sampleRate uint32
	channels   int
}

// NewFFmpegDecoder creates a decoder that invokes binary and asks it for the
// given output format.
func NewFFmpegDecoder(binary string, channels int, sampleRate uint32) (*FFmpegDecoder, error) {
	if binary == "" {
		return nil, fmt.Errorf("ffmpeg binary path is empty")
	}
	if err := validateFormat(channels, sampleRate); err != nil {
		return nil, err
	}
	return &FFmpegDecoder{binary: binary, sampleRate: sampleRate, channels: channels}, nil
}

func (f *FFmpegDecoder) args(input string) []string {
	return []string{
		"-i", input,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.FormatUint(uint64(f.sampleRate), 10),
		"-ac", strconv.Itoa(f.channels),
		"-loglevel", "error",
		"pipe:1",
	}
}

// DecodeFile decodes the file at path.
func (f *FFmpegDecoder) DecodeFile(ctx context.Context, path string) (*Buffer, error) {
	return f.run(ctx, exec.CommandContext(ctx, f.binary, f.args(path)...), path)
}

// DecodeReader decodes a payload streamed to ffmpeg's stdin.
func (f *FFmpegDecoder) DecodeReader(ctx context.Context, r io.Reader) (*Buffer, error) {
	cmd := exec.CommandContext(ctx, f.binary, f.args("pipe:0")...)
	cmd.Stdin = r
	return f.run(ctx, cmd, "stdin")
}

func (f *FFmpegDecoder) run(ctx context.Context, cmd *exec.Cmd, input string) (*Buffer, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithFields(logrus.Fields{
			"function": "FFmpegDecoder.run",
			"input":    input,
			"stderr":   stderr.String(),
			"error":    err.Error(),
		}).Warn("ffmpeg decode failed")
		return nil, fmt.Errorf("%w: ffmpeg %s: %v", ErrDecodeFailed, input, err)
	}

	// Drop a trailing partial frame.
	frameBytes := 2 * f.channels
	out = out[:len(out)-len(out)%frameBytes]
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no audio for %s", ErrDecodeFailed, input)
	}

	pcm := make([]int16, len(out)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2]))
	}

	logrus.WithFields(logrus.Fields{
		"function": "FFmpegDecoder.run",
		"input":    input,
		"frames":   len(pcm) / f.channels,
	}).Debug("ffmpeg decode completed")

	return &Buffer{Samples: FromInt16(pcm), Channels: f.channels, SampleRate: f.sampleRate}, nil
}
