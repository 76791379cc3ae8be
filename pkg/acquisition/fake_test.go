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

package acquisition

import (
	"context"
	"strings"
	"sync"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
)

// fakeHAL records every driver call in order and fails the ones listed in fail
type fakeHAL struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	// onEnable runs inside Transfer.Enable
	onEnable func()
	next     ifc.Handle
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{fail: make(map[string]error)}
}

func (f *fakeHAL) call(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeHAL) open(op string) (ifc.Handle, error) {
	if err := f.call(op); err != nil {
		return ifc.NoHandle, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next, nil
}

func (f *fakeHAL) setFail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeHAL) closes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []string
	for _, c := range f.calls {
		if strings.HasSuffix(c, ".close") {
			result = append(result, strings.TrimSuffix(c, ".close"))
		}
	}
	return result
}

func (f *fakeHAL) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeHAL) drivers(sched ifc.Scheduler) Drivers {
	return Drivers{
		Elc:       fakeElc{f},
		Transfer:  fakeTransfer{f},
		Adc:       fakeAdc{f},
		Timer:     fakeTimer{f},
		Scheduler: sched,
	}
}

type fakeElc struct{ f *fakeHAL }

func (e fakeElc) Open(cfg *ifc.ElcConfig) (ifc.Handle, error) { return e.f.open("elc.open") }
func (e fakeElc) Enable(h ifc.Handle) error { return e.f.call("elc.enable") }
func (e fakeElc) Close(h ifc.Handle) error { return e.f.call("elc.close") }

type fakeTransfer struct{ f *fakeHAL }

func (t fakeTransfer) Open(cfg *ifc.TransferConfig) (ifc.Handle, error) {
	return t.f.open("dtc.open")
}

func (t fakeTransfer) Reconfigure(h ifc.Handle, info *ifc.TransferInfo) error {
	return t.f.call("dtc.reconfigure")
}

func (t fakeTransfer) Enable(h ifc.Handle) error {
	if t.f.onEnable != nil {
		t.f.onEnable()
	}
	return t.f.call("dtc.enable")
}

func (t fakeTransfer) Close(h ifc.Handle) error { return t.f.call("dtc.close") }

type fakeAdc struct{ f *fakeHAL }

func (a fakeAdc) Open(cfg *ifc.AdcConfig) (ifc.Handle, error) { return a.f.open("adc.open") }
func (a fakeAdc) ConfigureChannels(h ifc.Handle, cfg *ifc.AdcChannelConfig) error {
	return a.f.call("adc.channels")
}
func (a fakeAdc) ScanStart(h ifc.Handle) error { return a.f.call("adc.scan_start") }
func (a fakeAdc) Close(h ifc.Handle) error { return a.f.call("adc.close") }

type fakeTimer struct{ f *fakeHAL }

func (t fakeTimer) Open(cfg *ifc.TimerConfig) (ifc.Handle, error) { return t.f.open("gpt.open") }
func (t fakeTimer) Start(h ifc.Handle) error { return t.f.call("gpt.start") }
func (t fakeTimer) Close(h ifc.Handle) error { return t.f.call("gpt.close") }

// fakeScheduler returns context.Canceled once limit sleeps were taken.
// beforeWake runs on every sleep with the sleep number.
type fakeScheduler struct {
	sleeps     int
	ticks      []uint32
	limit      int
	beforeWake func(n int)
}

func (s *fakeScheduler) Sleep(ctx context.Context, ticks uint32) error {
	s.sleeps++
	s.ticks = append(s.ticks, ticks)
	if s.limit > 0 && s.sleeps >= s.limit {
		return context.Canceled
	}
	if s.beforeWake != nil {
		s.beforeWake(s.sleeps)
	}
	return ctx.Err()
}
