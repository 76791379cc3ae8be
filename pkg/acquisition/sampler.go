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

// Package acquisition drives timer-triggered ADC scans into a ping-pong
// buffer: the transfer controller fills one buffer while the other is
// handed to the consumers, and the acquisition task re-points the transfer
// descriptor each time a scan complete event is observed.
package acquisition

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateHalted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Flags are written by the ADC callback and read by the acquisition task.
// Each holds at most one pending event.
type Flags struct {
	Complete atomic.Bool
	Error    atomic.Bool
}

type Drivers struct {
	Elc       ifc.Elc
	Transfer  ifc.Transfer
	Adc       ifc.Adc
	Timer     ifc.Timer
	Scheduler ifc.Scheduler
}

type Config struct {
	SamplesPerChannel int
	// Channels are scanned in order, the first one is transferred
	Channels    []uint8
	PollTicks   uint32
	TimerPeriod time.Duration
	AdcUnit     uint8
	Resolution  int
}

// Snapshot is a filled buffer handed to the sinks
type Snapshot struct {
	Seq     uint64    `json:"seq"`
	Buffer  uint8     `json:"buffer"`
	Channel uint8     `json:"channel"`
	Time    time.Time `json:"time"`
	Samples []uint16  `json:"samples"`
}

// Sink consumes filled buffers. A failing sink is logged and skipped.
type Sink interface {
	Consume(snap *Snapshot) error
}

type SinkFunc func(snap *Snapshot) error

func (f SinkFunc) Consume(snap *Snapshot) error {
	return f(snap)
}

type Status struct {
	State       string `json:"state"`
	Selector    uint8  `json:"selector"`
	Completions uint64 `json:"completions"`
	Open        string `json:"open"`
	Stage       string `json:"stage,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Sampler struct {
	cfg   Config
	drv   Drivers
	sinks []Sink

	Flags Flags

	// touched only by the acquisition task
	buffers [2][]uint16
	desc    ifc.TransferInfo

	mu          sync.RWMutex
	handles     [peripheralCount]ifc.Handle
	opened      PeripheralSet
	selector    uint8
	completions uint64
	state       State
	fatal       *FatalError
}

// NewSampler ...
func NewSampler(cfg Config, drv Drivers, sinks ...Sink) *Sampler {
	s := &Sampler{
		cfg:   cfg,
		drv:   drv,
		sinks: sinks,
		state: StateIdle,
	}
	for i := range s.buffers {
		s.buffers[i] = make([]uint16, cfg.SamplesPerChannel)
	}
	s.desc = ifc.TransferInfo{
		Mode:   ifc.TransferModeNormal,
		Source: s.channel(),
		Dest:   s.buffers[0][:],
		Length: cfg.SamplesPerChannel,
	}
	return s
}

func (s *Sampler) channel() uint8 {
	if len(s.cfg.Channels) == 0 {
		return 0
	}
	return s.cfg.Channels[0]
}

// Callback is installed as the ADC callback. It runs in the callback
// context and only sets flags.
func (s *Sampler) Callback(event ifc.AdcEvent) {
	if event == ifc.AdcEventScanComplete {
		s.Flags.Complete.Store(true)
		return
	}
	s.Flags.Error.Store(true)
}

// Buffer returns buffer i of the pair
func (s *Sampler) Buffer(i int) []uint16 {
	return s.buffers[i]
}

// Descriptor returns the transfer descriptor the transfer controller reads
func (s *Sampler) Descriptor() *ifc.TransferInfo {
	return &s.desc
}

func (s *Sampler) Selector() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selector
}

func (s *Sampler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Sampler) Opened() PeripheralSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opened
}

// Fatal returns the error that halted the sampler, nil while it is not halted
func (s *Sampler) Fatal() *FatalError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fatal
}

func (s *Sampler) Status() *Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := &Status{
		State:       s.state.String(),
		Selector:    s.selector,
		Completions: s.completions,
		Open:        s.opened.String(),
	}
	if s.fatal != nil {
		st.Stage = s.fatal.Stage.String()
		st.Error = s.fatal.Error()
	}
	return st
}

func (s *Sampler) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Sampler) opening(p Peripheral, h ifc.Handle) {
	s.mu.Lock()
	s.handles[p] = h
	s.opened = s.opened.With(p)
	s.mu.Unlock()
}

func (s *Sampler) handle(p Peripheral) ifc.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handles[p]
}

func (s *Sampler) publish(seq uint64, buffer uint8) {
	if len(s.sinks) == 0 {
		return
	}
	snap := &Snapshot{
		Seq:     seq,
		Buffer:  buffer,
		Channel: s.channel(),
		Time:    time.Now(),
		Samples: append([]uint16(nil), s.buffers[buffer]...),
	}
	for _, sink := range s.sinks {
		if err := sink.Consume(snap); err != nil {
			log.Warning("Sink failed to consume snapshot %d: %v", seq, err)
		}
	}
}
