package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pion/opus"
	"github.com/pion/webrtc/v3/pkg/media/oggreader"
	"github.com/sirupsen/logrus"
)

// opusRate is the rate the Opus decoder produces regardless of the rate
// recorded in the stream header.
const opusRate = 48000

// maxOpusPacketSamples is 120ms at 48kHz, the longest legal Opus packet.
const maxOpusPacketSamples = 5760

var opusTagsMagic = []byte("OpusTags")

// DecodeOggOpus decodes an Ogg stream carrying Opus packets into a mono 48kHz
// buffer. The header's pre-skip samples are dropped.
func DecodeOggOpus(r io.Reader) (*Buffer, error) {
	ogg, header, err := oggreader.NewWith(r)
	if err != nil {
		return nil, fmt.Errorf("%w: ogg header: %v", ErrDecodeFailed, err)
	}

	decoder := opus.NewDecoder()
	out := make([]byte, maxOpusPacketSamples*2)
	var samples []float32
	packets := 0

	for {
		page, _, err := ogg.ParseNextPage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ogg page %d: %v", ErrDecodeFailed, packets, err)
		}
		if len(page) == 0 || bytes.HasPrefix(page, opusTagsMagic) {
			continue
		}

		count, err := opusPacketSamples(page)
		if err != nil {
			return nil, fmt.Errorf("%w: packet %d: %v", ErrDecodeFailed, packets, err)
		}
		if _, _, err := decoder.Decode(page, out); err != nil {
			return nil, fmt.Errorf("%w: opus packet %d: %v", ErrDecodeFailed, packets, err)
		}
		for i := 0; i < count; i++ {
			s := int16(uint16(out[i*2]) | uint16(out[i*2+1])<<8)
			samples = append(samples, float32(s)/32768)
		}
		packets++
	}

	if packets == 0 {
		return nil, fmt.Errorf("%w: ogg stream has no audio packets", ErrDecodeFailed)
	}

	skip := minInt(int(header.PreSkip), len(samples))
	samples = samples[skip:]

	logrus.WithFields(logrus.Fields{
		"function":      "DecodeOggOpus",
		"packets":       packets,
		"header_rate":   header.SampleRate,
		"pre_skip":      header.PreSkip,
		"output_frames": len(samples),
	}).Debug("Decoded ogg/opus payload")

	return &Buffer{Samples: samples, Channels: 1, SampleRate: opusRate}, nil
}

// opusPacketSamples reads the packet's TOC byte and returns how many samples
// per channel it decodes to at 48kHz.
func opusPacketSamples(packet []byte) (int, error) {
	if len(packet) == 0 {
		return 0, errors.New("empty opus packet")
	}
	toc := packet[0]
	config := int(toc >> 3)

	var tenthsMs int
	switch {
	case config < 12: // SILK: 10, 20, 40, 60 ms
		tenthsMs = []int{100, 200, 400, 600}[config%4]
	case config < 16: // Hybrid: 10, 20 ms
		tenthsMs = []int{100, 200}[config%2]
	default: // CELT: 2.5, 5, 10, 20 ms
		tenthsMs = []int{25, 50, 100, 200}[config%4]
	}

	frames := 1
	switch toc & 0x3 {
	case 1, 2:
		frames = 2
	case 3:
		if len(packet) < 2 {
			return 0, errors.New("truncated opus frame count")
		}
		frames = int(packet[1] & 0x3f)
	}

	samples := tenthsMs * opusRate / 10000 * frames
	if samples == 0 || samples > maxOpusPacketSamples {
		return 0, fmt.Errorf("invalid opus packet duration: %d samples", samples)
	}
	return samples, nil
}
