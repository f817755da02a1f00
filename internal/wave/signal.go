package wave

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// Signal is a mono sequence of amplitude-normalized samples.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration reports the signal length in wall-clock time.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Empty reports whether the signal holds no samples.
func (s Signal) Empty() bool {
	return len(s.Samples) == 0
}

// Load reads a WAV file from disk and decodes it into a Signal.
func Load(path string) (Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode parses WAV data into a Signal with samples scaled to [-1, 1].
// Integer PCM at any bit depth is accepted; multi-channel input is rejected
// because the extraction pipeline always produces mono.
func Decode(r io.ReadSeeker) (Signal, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Signal{}, errors.New("decode wav: not a valid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Signal{}, fmt.Errorf("decode wav: read pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return Signal{}, errors.New("decode wav: no samples")
	}
	if buf.Format.NumChannels != 1 {
		return Signal{}, fmt.Errorf("decode wav: expected mono input, got %d channels", buf.Format.NumChannels)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	fullScale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / fullScale
	}

	return Signal{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}
