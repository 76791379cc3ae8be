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
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

const adcHandle ifc.Handle = 0xadc

type Adc struct {
	b        *Board
	handle   ifc.Handle
	cfg      ifc.AdcConfig
	channels []uint8
	scanning bool
	scans    uint64
	results  map[uint8]uint16
}

func (a *Adc) Open(cfg *ifc.AdcConfig) (ifc.Handle, error) {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	if err := a.b.fault(OpAdcOpen); err != nil {
		return ifc.NoHandle, err
	}
	if a.handle != ifc.NoHandle {
		return ifc.NoHandle, ifc.StatusAlreadyOpen
	}
	if cfg == nil || cfg.Resolution <= 0 || cfg.Resolution > 16 {
		return ifc.NoHandle, ifc.StatusInvalidArgument
	}
	a.cfg = *cfg
	a.results = make(map[uint8]uint16)
	a.handle = adcHandle
	log.Debug("ADC unit %d opened, trigger: %s", cfg.Unit, cfg.Trigger)
	return a.handle, nil
}

func (a *Adc) ConfigureChannels(h ifc.Handle, cfg *ifc.AdcChannelConfig) error {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	if err := a.b.fault(OpAdcChannels); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != a.handle {
		return ifc.StatusNotOpen
	}
	if cfg == nil || len(cfg.Channels) == 0 {
		return ifc.StatusInvalidArgument
	}
	a.channels = append([]uint8(nil), cfg.Channels...)
	return nil
}

// ScanStart makes the unit accept its hardware trigger
func (a *Adc) ScanStart(h ifc.Handle) error {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	if err := a.b.fault(OpAdcScanStart); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != a.handle {
		return ifc.StatusNotOpen
	}
	if len(a.channels) == 0 {
		return ifc.StatusNotEnabled
	}
	a.scanning = true
	return nil
}

func (a *Adc) Close(h ifc.Handle) error {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	if err := a.b.fault(OpAdcClose); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != a.handle {
		return ifc.StatusNotOpen
	}
	a.handle = ifc.NoHandle
	a.scanning = false
	a.channels = nil
	a.cfg = ifc.AdcConfig{}
	log.Debug("ADC closed")
	return nil
}

func (a *Adc) IsOpen() bool {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	return a.handle != ifc.NoHandle
}

// Scans is the number of completed scans
func (a *Adc) Scans() uint64 {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	return a.scans
}

// callback returns the installed callback of an open unit. Caller holds the board lock.
func (a *Adc) callback() ifc.AdcCallback {
	if a.handle == ifc.NoHandle {
		return nil
	}
	return a.cfg.Callback
}

// scan converts every configured channel. The scan end activates the
// transfer; the CPU sees the interrupt only when the transfer is not armed
// or its count ran out. Caller holds the board lock.
func (a *Adc) scan(trigger ifc.Event) (ifc.AdcEvent, bool) {
	if a.handle == ifc.NoHandle || !a.scanning || a.cfg.Trigger != trigger {
		return ifc.AdcEventScanComplete, false
	}
	for _, ch := range a.channels {
		a.results[ch] = a.b.signal.Sample(ch, a.scans)
	}
	a.scans++
	taken, done := a.b.DTC.activate(ifc.EventAdcScanEnd, a.results)
	if taken && !done {
		return ifc.AdcEventScanComplete, false
	}
	return ifc.AdcEventScanComplete, true
}
