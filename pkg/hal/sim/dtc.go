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

const dtcHandle ifc.Handle = 0xd7c

// Dtc keeps a reference to the descriptor handed to Reconfigure, the same
// way the transfer controller reads its descriptor from RAM. Enable latches
// the current destination window and length.
type Dtc struct {
	b          *Board
	handle     ifc.Handle
	activation ifc.Event
	info       *ifc.TransferInfo

	armed  bool
	source uint8
	dest   []uint16
	pos    int

	completed uint64
}

func (d *Dtc) Open(cfg *ifc.TransferConfig) (ifc.Handle, error) {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.fault(OpDtcOpen); err != nil {
		return ifc.NoHandle, err
	}
	if d.handle != ifc.NoHandle {
		return ifc.NoHandle, ifc.StatusAlreadyOpen
	}
	if cfg == nil {
		return ifc.NoHandle, ifc.StatusInvalidArgument
	}
	d.activation = cfg.Activation
	d.info = cfg.Info
	d.handle = dtcHandle
	log.Debug("DTC opened, activation source: %s", d.activation)
	return d.handle, nil
}

func (d *Dtc) Reconfigure(h ifc.Handle, info *ifc.TransferInfo) error {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.fault(OpDtcReconfigure); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != d.handle {
		return ifc.StatusNotOpen
	}
	if info == nil {
		return ifc.StatusInvalidArgument
	}
	d.info = info
	d.armed = false
	return nil
}

func (d *Dtc) Enable(h ifc.Handle) error {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.fault(OpDtcEnable); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != d.handle {
		return ifc.StatusNotOpen
	}
	if d.info == nil || d.info.Length <= 0 || len(d.info.Dest) < d.info.Length {
		return ifc.StatusInvalidArgument
	}
	d.source = d.info.Source
	d.dest = d.info.Dest[:d.info.Length]
	d.pos = 0
	d.armed = true
	return nil
}

func (d *Dtc) Close(h ifc.Handle) error {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	if err := d.b.fault(OpDtcClose); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != d.handle {
		return ifc.StatusNotOpen
	}
	d.handle = ifc.NoHandle
	d.info = nil
	d.dest = nil
	d.armed = false
	log.Debug("DTC closed")
	return nil
}

func (d *Dtc) IsOpen() bool {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	return d.handle != ifc.NoHandle
}

func (d *Dtc) Armed() bool {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	return d.armed
}

// Completed is the number of transfers that ran to the end of their window
func (d *Dtc) Completed() uint64 {
	d.b.mu.Lock()
	defer d.b.mu.Unlock()
	return d.completed
}

// activate moves one result into the destination window. It reports whether
// the transfer took the activation and whether its count reached zero.
// Caller holds the board lock.
func (d *Dtc) activate(event ifc.Event, results map[uint8]uint16) (taken, done bool) {
	if d.handle == ifc.NoHandle || !d.armed || d.activation != event {
		return false, false
	}
	value, ok := results[d.source]
	if !ok {
		return false, false
	}
	d.dest[d.pos] = value
	d.pos++
	if d.pos < len(d.dest) {
		return true, false
	}
	d.armed = false
	d.completed++
	return true, true
}
