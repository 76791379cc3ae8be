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

package command

import (
	"os"
	"time"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/layers"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/writer"
)

// FrameSummary describes one frame of a frame file
type FrameSummary struct {
	Seq     uint64    `json:"seq"`
	Buffer  uint8     `json:"buffer"`
	Channel uint8     `json:"channel"`
	Time    time.Time `json:"time"`
	Count   int       `json:"count"`
	Min     uint16    `json:"min"`
	Max     uint16    `json:"max"`
	Mean    float64   `json:"mean"`
}

func Summarize(frame *layers.SampleLayer) *FrameSummary {
	s := &FrameSummary{
		Seq:     frame.Seq,
		Buffer:  frame.Buffer,
		Channel: frame.Channel,
		Time:    time.Unix(0, frame.Timestamp),
		Count:   len(frame.Samples),
	}
	if s.Count == 0 {
		return s
	}
	s.Min = frame.Samples[0]
	var sum uint64
	for _, v := range frame.Samples {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += uint64(v)
	}
	s.Mean = float64(sum) / float64(s.Count)
	return s
}

// DumpFile summarizes every frame of a frame file
func DumpFile(path string) ([]*FrameSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	summaries := []*FrameSummary{}
	err = writer.ReadFrames(f, func(frame *layers.SampleLayer) error {
		summaries = append(summaries, Summarize(frame))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
