package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Resampler changes the sample rate of interleaved float32 audio by linear
// interpolation between neighbouring frames.
//
// Every call treats its input as a whole signal. Nothing is carried over
// between calls, so one Resampler may be shared by concurrent renders.
type Resampler struct {
	from     uint32
	to       uint32
	channels int
	step     float64
}

// ResamplerConfig describes a rate conversion.
type ResamplerConfig struct {
	InputRate  uint32 // source rate in Hz
	OutputRate uint32 // target rate in Hz
	Channels   int
}

// NewResampler validates config and returns a ready Resampler.
func NewResampler(config ResamplerConfig) (*Resampler, error) {
	var err error
	switch {
	case config.Channels < 1 || config.Channels > MaxChannels:
		err = fmt.Errorf("%w: channel count %d", ErrInvalidFormat, config.Channels)
	case config.InputRate == 0 || config.OutputRate == 0:
		err = fmt.Errorf("%w: rates %d->%d", ErrInvalidFormat, config.InputRate, config.OutputRate)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewResampler",
			"error":    err.Error(),
		}).Error("Rejected resampler format")
		return nil, err
	}

	r := &Resampler{
		from:     config.InputRate,
		to:       config.OutputRate,
		channels: config.Channels,
		step:     float64(config.InputRate) / float64(config.OutputRate),
	}
	logrus.WithFields(logrus.Fields{
		"function": "NewResampler",
		"from_hz":  r.from,
		"to_hz":    r.to,
		"channels": r.channels,
	}).Debug("Resampler ready")
	return r, nil
}

// OutputFrames returns how many frames Resample produces for inputFrames.
func (r *Resampler) OutputFrames(inputFrames int) int {
	return int((int64(inputFrames)*int64(r.to) + int64(r.from)/2) / int64(r.from))
}

// Resample returns input converted to the output rate. Equal rates yield a
// copy.
func (r *Resampler) Resample(input []float32) ([]float32, error) {
	switch {
	case len(input) == 0:
		return nil, ErrEmptyBuffer
	case len(input)%r.channels != 0:
		return nil, fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames",
			ErrInvalidFormat, len(input), r.channels)
	}

	if r.from == r.to {
		return append([]float32(nil), input...), nil
	}

	inFrames := len(input) / r.channels
	outFrames := r.OutputFrames(inFrames)
	out := make([]float32, outFrames*r.channels)
	last := inFrames - 1

	for f := 0; f < outFrames; f++ {
		pos := float64(f) * r.step
		lo := int(pos)
		dst := out[f*r.channels : (f+1)*r.channels]
		if lo >= last {
			// Past the final frame: hold it.
			copy(dst, input[last*r.channels:])
			continue
		}
		w := float32(pos - float64(lo))
		a := input[lo*r.channels : (lo+1)*r.channels]
		b := input[(lo+1)*r.channels : (lo+2)*r.channels]
		for c := range dst {
			dst[c] = a[c] + (b[c]-a[c])*w
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Resampler.Resample",
		"from_hz":    r.from,
		"to_hz":      r.to,
		"in_frames":  inFrames,
		"out_frames": outFrames,
	}).Debug("Resampled buffer")
	return out, nil
}
