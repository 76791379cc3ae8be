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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/layers"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

const (
	FileExt = ".frames"
)

// Writer appends every filled buffer to a frame file
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
	frames int
}

var _ acquisition.Sink = &Writer{}

// FileName ...
func FileName(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", prefix, t.Format("20060102_150405"), FileExt))
}

func NewWriter(dir, prefix string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	filename := FileName(dir, prefix, time.Now())
	file, err := os.Create(filename)
	if err != nil {
		log.Error("Error while creating file: %s", filename)
		return nil, err
	}
	log.Info("Writing sample frames to %s", filename)
	return &Writer{
		file: file,
		buf:  bufio.NewWriter(file),
	}, nil
}

// Name returns the path of the frame file
func (w *Writer) Name() string {
	return w.file.Name()
}

func (w *Writer) Consume(snap *acquisition.Snapshot) error {
	data, err := layers.Marshal(snap)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.buf.Write(data); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written so far
func (w *Writer) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	return w.file.Close()
}

// ReadFrames calls fn for every frame in r until EOF
func ReadFrames(r io.Reader, fn func(frame *layers.SampleLayer) error) error {
	header := make([]byte, layers.SampleHeaderLen)
	for {
		_, err := io.ReadFull(r, header)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		n, err := layers.FrameLen(header)
		if err != nil {
			return err
		}
		data := make([]byte, n)
		copy(data, header)
		if _, err := io.ReadFull(r, data[layers.SampleHeaderLen:]); err != nil {
			return err
		}
		frames, err := layers.Unmarshal(data)
		if err != nil {
			return err
		}
		for _, frame := range frames {
			if err := fn(frame); err != nil {
				return err
			}
		}
	}
}
