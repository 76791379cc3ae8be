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
	"fmt"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

// Stage is the point of the acquisition where a failure was detected
type Stage int

const (
	StageElcOpen Stage = iota
	StageDtcOpen
	StageDtcReconfigure
	StageAdcOpen
	StageAdcChannels
	StageGptOpen
	StageElcEnable
	StageDtcEnable
	StageRuntime
	stageCount
)

var stageNames = [stageCount]string{
	"elc-open",
	"dtc-open",
	"dtc-reconfigure",
	"adc-open",
	"adc-channels",
	"gpt-open",
	"elc-enable",
	"dtc-enable",
	"runtime",
}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

var fullTeardown = []Peripheral{PeripheralELC, PeripheralADC, PeripheralGPT, PeripheralDTC}

// teardownTable maps the failing stage to the peripherals released, in
// close order. Each entry is the set opened before that stage.
var teardownTable = map[Stage][]Peripheral{
	StageElcOpen:        nil,
	StageDtcOpen:        {PeripheralELC},
	StageDtcReconfigure: {PeripheralELC, PeripheralDTC},
	StageAdcOpen:        {PeripheralELC, PeripheralDTC},
	StageAdcChannels:    {PeripheralELC, PeripheralDTC, PeripheralADC},
	StageGptOpen:        {PeripheralELC, PeripheralDTC, PeripheralADC},
	StageElcEnable:      fullTeardown,
	StageDtcEnable:      fullTeardown,
	StageRuntime:        fullTeardown,
}

// TeardownProfile returns the close order used when stage fails
func TeardownProfile(stage Stage) []Peripheral {
	return append([]Peripheral(nil), teardownTable[stage]...)
}

// HandleError does nothing for a nil err. Otherwise it releases the
// peripherals of the stage's teardown profile, reports msg and halts the
// sampler. The returned error is a *FatalError.
func (s *Sampler) HandleError(err error, msg string, stage Stage) error {
	if err == nil {
		return nil
	}
	closed := s.release(teardownTable[stage])
	log.Error("%s: %v", msg, err)

	fatal := &FatalError{
		Stage:   stage,
		Message: msg,
		Err:     err,
		Closed:  closed,
	}
	s.mu.Lock()
	s.state = StateHalted
	if s.fatal == nil {
		s.fatal = fatal
	}
	s.mu.Unlock()
	return fatal
}

// Shutdown releases every open peripheral. It is the clean counterpart of
// the fatal teardown and is a no-op on a halted sampler.
func (s *Sampler) Shutdown() {
	s.mu.Lock()
	if s.state == StateHalted || s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	s.mu.Unlock()
	closed := s.release(fullTeardown)
	log.Info("Acquisition stopped, closed: %v", closed)
}

// release closes the listed peripherals that are still open. Close errors
// are logged and otherwise ignored. A peripheral is never closed twice.
func (s *Sampler) release(order []Peripheral) []Peripheral {
	var closed []Peripheral
	for _, p := range order {
		s.mu.Lock()
		open := s.opened.Has(p)
		h := s.handles[p]
		s.opened = s.opened.Without(p)
		s.mu.Unlock()
		if !open {
			continue
		}

		var err error
		switch p {
		case PeripheralELC:
			err = s.drv.Elc.Close(h)
		case PeripheralDTC:
			err = s.drv.Transfer.Close(h)
		case PeripheralADC:
			err = s.drv.Adc.Close(h)
		case PeripheralGPT:
			err = s.drv.Timer.Close(h)
		}
		if err != nil {
			log.Warning("Closing %s failed: %v", p, err)
		}
		closed = append(closed, p)
	}
	return closed
}
