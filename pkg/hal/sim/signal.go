/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package sim

import (
	"math"
	"time"
)

const (
	WaveformSine     = "sine"
	WaveformSquare   = "square"
	WaveformSawtooth = "sawtooth"
	WaveformConstant = "constant"
)

// Signal is the analog input applied to every channel. Channel n is shifted
// by n/8 of a period so that scanned channels are distinguishable.
type Signal struct {
	Waveform     string
	Frequency    float64
	Amplitude    float64
	Offset       float64
	Resolution   int
	SamplePeriod time.Duration
}

func (s *Signal) Sample(ch uint8, n uint64) uint16 {
	if s == nil {
		return 0
	}
	t := float64(n) * s.SamplePeriod.Seconds()
	phase := math.Mod(s.Frequency*t+float64(ch)/8, 1)

	var v float64
	switch s.Waveform {
	case WaveformSine:
		v = math.Sin(2 * math.Pi * phase)
	case WaveformSquare:
		v = 1
		if phase >= 0.5 {
			v = -1
		}
	case WaveformSawtooth:
		v = 2*phase - 1
	default:
		v = 0
	}
	return s.quantize(s.Offset + s.Amplitude*v)
}

func (s *Signal) quantize(v float64) uint16 {
	bits := s.Resolution
	if bits <= 0 || bits > 16 {
		bits = 16
	}
	max := float64(uint32(1)<<uint(bits) - 1)
	if v < 0 {
		return 0
	}
	if v > max {
		return uint16(max)
	}
	return uint16(math.Round(v))
}
