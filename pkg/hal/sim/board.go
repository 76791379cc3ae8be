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

// Package sim is a software model of the acquisition board: event link,
// transfer controller, ADC unit and general purpose timer. Timer ticks are
// routed through the event link to the ADC, scan results are moved by the
// transfer controller into the armed destination window and the ADC
// callback is raised when the transfer count runs out.
package sim

import (
	"sync"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
)

// Op names a driver call that can be made to fail
type Op string

const (
	OpElcOpen        Op = "elc.open"
	OpElcEnable      Op = "elc.enable"
	OpElcClose       Op = "elc.close"
	OpDtcOpen        Op = "dtc.open"
	OpDtcReconfigure Op = "dtc.reconfigure"
	OpDtcEnable      Op = "dtc.enable"
	OpDtcClose       Op = "dtc.close"
	OpAdcOpen        Op = "adc.open"
	OpAdcChannels    Op = "adc.channels"
	OpAdcScanStart   Op = "adc.scan_start"
	OpAdcClose       Op = "adc.close"
	OpGptOpen        Op = "gpt.open"
	OpGptStart       Op = "gpt.start"
	OpGptClose       Op = "gpt.close"
)

type Board struct {
	mu     sync.Mutex
	faults map[Op]error
	signal *Signal

	ELC *Elc
	DTC *Dtc
	ADC *Adc
	GPT *Gpt
}

var (
	_ ifc.Elc      = &Elc{}
	_ ifc.Transfer = &Dtc{}
	_ ifc.Adc      = &Adc{}
	_ ifc.Timer    = &Gpt{}
)

// NewBoard ...
func NewBoard(signal *Signal) *Board {
	b := &Board{
		faults: make(map[Op]error),
		signal: signal,
	}
	b.ELC = &Elc{b: b}
	b.DTC = &Dtc{b: b}
	b.ADC = &Adc{b: b}
	b.GPT = &Gpt{b: b}
	return b
}

// Fail makes every following call of op return err. A nil err clears the fault.
func (b *Board) Fail(op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.faults, op)
		return
	}
	b.faults[op] = err
}

func (b *Board) fault(op Op) error {
	return b.faults[op]
}

// InjectScanError raises the ADC error callback as the hardware does on an
// aborted or overrun scan
func (b *Board) InjectScanError() {
	b.mu.Lock()
	cb := b.ADC.callback()
	b.mu.Unlock()
	if cb != nil {
		cb(ifc.AdcEventScanError)
	}
}

// tick handles one timer counter overflow
func (b *Board) tick() {
	var events []ifc.AdcEvent
	b.mu.Lock()
	if !b.GPT.running {
		b.mu.Unlock()
		return
	}
	b.GPT.count++
	for _, target := range b.ELC.route(ifc.EventGptCounterOverflow) {
		if target != ifc.TargetAdcStart {
			continue
		}
		if ev, raised := b.ADC.scan(ifc.EventGptCounterOverflow); raised {
			events = append(events, ev)
		}
	}
	cb := b.ADC.callback()
	b.mu.Unlock()

	if cb == nil {
		return
	}
	for _, ev := range events {
		cb(ev)
	}
}
