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

package writer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/layers"
)

func TestWriteAndReadFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	w, err := NewWriter(dir, "adc0_an0")
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(w.Name()), "adc0_an0_") || filepath.Ext(w.Name()) != FileExt {
		t.Errorf("Unexpected file name %s", w.Name())
	}
	for seq := uint64(1); seq <= 4; seq++ {
		snap := &acquisition.Snapshot{
			Seq:     seq,
			Buffer:  uint8(seq % 2),
			Time:    time.Unix(1700000000, 0),
			Samples: []uint16{uint16(seq), 2048, 4095},
		}
		if err := w.Consume(snap); err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
	}
	if w.Frames() != 4 {
		t.Errorf("Expected 4 frames, got %d", w.Frames())
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	f, err := os.Open(w.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var seqs []uint64
	err = ReadFrames(f, func(frame *layers.SampleLayer) error {
		seqs = append(seqs, frame.Seq)
		if frame.Buffer != uint8(frame.Seq%2) {
			t.Errorf("Expected buffer %d, got %d", frame.Seq%2, frame.Buffer)
		}
		if frame.Samples[0] != uint16(frame.Seq) {
			t.Errorf("Expected first sample %d, got %d", frame.Seq, frame.Samples[0])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadFrames failed: %v", err)
	}
	if len(seqs) != 4 || seqs[0] != 1 || seqs[3] != 4 {
		t.Errorf("Unexpected sequence numbers %v", seqs)
	}
}

func TestReadFramesTruncated(t *testing.T) {
	data, err := layers.Marshal(&acquisition.Snapshot{Seq: 1, Samples: []uint16{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	err = ReadFrames(bytes.NewReader(data[:len(data)-1]), func(*layers.SampleLayer) error { return nil })
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadFramesStopsOnCallbackError(t *testing.T) {
	var buf bytes.Buffer
	for seq := uint64(1); seq <= 3; seq++ {
		data, err := layers.Marshal(&acquisition.Snapshot{Seq: seq, Samples: []uint16{0}})
		if err != nil {
			t.Fatal(err)
		}
		buf.Write(data)
	}
	stop := errors.New("stop")
	calls := 0
	err := ReadFrames(&buf, func(*layers.SampleLayer) error {
		calls++
		return stop
	})
	if err != stop || calls != 1 {
		t.Errorf("Expected to stop after one frame, got %d calls and %v", calls, err)
	}
}

func TestReadFramesRejectsHugeCount(t *testing.T) {
	header := make([]byte, layers.SampleHeaderLen)
	binary.LittleEndian.PutUint32(header[0:4], layers.SampleMagic)
	binary.LittleEndian.PutUint32(header[24:28], 0x10000000)
	err := ReadFrames(bytes.NewReader(header), func(*layers.SampleLayer) error { return nil })
	var bad layers.ErrBadCount
	if !errors.As(err, &bad) {
		t.Errorf("Expected layers.ErrBadCount, got %v", err)
	}
}
