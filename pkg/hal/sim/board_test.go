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
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
)

type openBoard struct {
	*Board
	elc, dtc, adc, gpt ifc.Handle
	info               *ifc.TransferInfo
	completes, errs    int32
}

func setupBoard(t *testing.T, period time.Duration, length int) *openBoard {
	t.Helper()
	ob := &openBoard{
		Board: NewBoard(&Signal{Waveform: WaveformSawtooth, Frequency: 100, Amplitude: 100, Offset: 100, Resolution: 12, SamplePeriod: time.Millisecond}),
		info:  &ifc.TransferInfo{Source: 0, Dest: make([]uint16, length), Length: length},
	}
	var err error
	if ob.elc, err = ob.ELC.Open(&ifc.ElcConfig{Links: []ifc.ElcLink{{Event: ifc.EventGptCounterOverflow, Target: ifc.TargetAdcStart}}}); err != nil {
		t.Fatalf("ELC open failed: %v", err)
	}
	if ob.dtc, err = ob.DTC.Open(&ifc.TransferConfig{Activation: ifc.EventAdcScanEnd}); err != nil {
		t.Fatalf("DTC open failed: %v", err)
	}
	if err = ob.DTC.Reconfigure(ob.dtc, ob.info); err != nil {
		t.Fatalf("DTC reconfigure failed: %v", err)
	}
	callback := func(ev ifc.AdcEvent) {
		if ev == ifc.AdcEventScanComplete {
			atomic.AddInt32(&ob.completes, 1)
		} else {
			atomic.AddInt32(&ob.errs, 1)
		}
	}
	if ob.adc, err = ob.ADC.Open(&ifc.AdcConfig{Resolution: 12, Trigger: ifc.EventGptCounterOverflow, Callback: callback}); err != nil {
		t.Fatalf("ADC open failed: %v", err)
	}
	if err = ob.ADC.ConfigureChannels(ob.adc, &ifc.AdcChannelConfig{Channels: []uint8{0}}); err != nil {
		t.Fatalf("ADC channel config failed: %v", err)
	}
	if ob.gpt, err = ob.GPT.Open(&ifc.TimerConfig{Period: period}); err != nil {
		t.Fatalf("GPT open failed: %v", err)
	}
	if err = ob.ELC.Enable(ob.elc); err != nil {
		t.Fatalf("ELC enable failed: %v", err)
	}
	if err = ob.DTC.Enable(ob.dtc); err != nil {
		t.Fatalf("DTC enable failed: %v", err)
	}
	if err = ob.ADC.ScanStart(ob.adc); err != nil {
		t.Fatalf("ADC scan start failed: %v", err)
	}
	if err = ob.GPT.Start(ob.gpt); err != nil {
		t.Fatalf("GPT start failed: %v", err)
	}
	return ob
}

func TestTransferCompletesAfterLengthScans(t *testing.T) {
	ob := setupBoard(t, 0, 4)

	for i := 0; i < 3; i++ {
		ob.GPT.Tick()
	}
	if n := atomic.LoadInt32(&ob.completes); n != 0 {
		t.Fatalf("Expected no completion before the window is full, got %d", n)
	}
	ob.GPT.Tick()
	if n := atomic.LoadInt32(&ob.completes); n != 1 {
		t.Fatalf("Expected one completion, got %d", n)
	}
	if ob.DTC.Armed() {
		t.Error("Transfer must disarm when its count runs out")
	}
	if ob.info.Dest[0] != 0 {
		t.Errorf("Expected sample 0 at phase 0, got %d", ob.info.Dest[0])
	}
	if ob.info.Dest[1] <= ob.info.Dest[0] || ob.info.Dest[3] <= ob.info.Dest[2] {
		t.Errorf("Expected a rising sawtooth, got %v", ob.info.Dest)
	}
	if ob.DTC.Completed() != 1 {
		t.Errorf("Expected 1 completed transfer, got %d", ob.DTC.Completed())
	}
}

func TestUnarmedTransferPassesInterruptThrough(t *testing.T) {
	ob := setupBoard(t, 0, 2)
	ob.GPT.Tick()
	ob.GPT.Tick()
	ob.GPT.Tick()
	ob.GPT.Tick()
	// one completion from the transfer and one per unhandled scan after it
	if n := atomic.LoadInt32(&ob.completes); n != 3 {
		t.Errorf("Expected 3 completions, got %d", n)
	}
}

func TestEnableLatchesDescriptor(t *testing.T) {
	ob := setupBoard(t, 0, 2)
	other := make([]uint16, 2)
	ob.info.Dest = other
	ob.GPT.Tick()
	ob.GPT.Tick()
	if other[1] != 0 || other[0] != 0 {
		t.Errorf("Destination change must not apply before Enable, got %v", other)
	}
	if err := ob.DTC.Enable(ob.dtc); err != nil {
		t.Fatal(err)
	}
	ob.GPT.Tick()
	ob.GPT.Tick()
	if other[1] == 0 {
		t.Errorf("Expected the new window to be filled after Enable, got %v", other)
	}
}

func TestEnableRejectsShortWindow(t *testing.T) {
	ob := setupBoard(t, 0, 2)
	ob.info.Length = 8
	if err := ob.DTC.Enable(ob.dtc); !errors.Is(err, ifc.StatusInvalidArgument) {
		t.Errorf("Expected invalid argument, got %v", err)
	}
}

func TestFaultInjection(t *testing.T) {
	b := NewBoard(nil)
	injected := errors.New("injected")
	b.Fail(OpElcOpen, injected)
	if _, err := b.ELC.Open(&ifc.ElcConfig{}); !errors.Is(err, injected) {
		t.Fatalf("Expected injected error, got %v", err)
	}
	b.Fail(OpElcOpen, nil)
	h, err := b.ELC.Open(&ifc.ElcConfig{})
	if err != nil {
		t.Fatalf("Expected open to succeed after clearing the fault, got %v", err)
	}
	if _, err := b.ELC.Open(&ifc.ElcConfig{}); !errors.Is(err, ifc.StatusAlreadyOpen) {
		t.Errorf("Expected already open, got %v", err)
	}
	if err := b.ELC.Close(h); err != nil {
		t.Fatal(err)
	}
	if err := b.ELC.Close(h); !errors.Is(err, ifc.StatusNotOpen) {
		t.Errorf("Expected not open on second close, got %v", err)
	}
}

func TestInjectScanError(t *testing.T) {
	ob := setupBoard(t, 0, 2)
	ob.InjectScanError()
	if n := atomic.LoadInt32(&ob.errs); n != 1 {
		t.Errorf("Expected one error callback, got %d", n)
	}
}

func TestTimerGoroutineStopsOnClose(t *testing.T) {
	ob := setupBoard(t, time.Millisecond, 4)
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&ob.completes) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if atomic.LoadInt32(&ob.completes) == 0 {
		t.Fatal("Expected the running timer to complete a transfer")
	}
	if err := ob.GPT.Close(ob.gpt); err != nil {
		t.Fatal(err)
	}
	count := ob.GPT.Count()
	time.Sleep(5 * time.Millisecond)
	if ob.GPT.Count() != count {
		t.Error("Timer kept ticking after Close")
	}
}

func TestSignalQuantize(t *testing.T) {
	s := &Signal{Waveform: WaveformConstant, Offset: 5000, Resolution: 12}
	if v := s.Sample(0, 0); v != 4095 {
		t.Errorf("Expected clamp to 4095, got %d", v)
	}
	s.Offset = -3
	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("Expected clamp to 0, got %d", v)
	}
}

func TestTickSchedulerCancel(t *testing.T) {
	s := &TickScheduler{Tick: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Sleep(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
