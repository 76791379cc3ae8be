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

const elcHandle ifc.Handle = 0xe1c

type Elc struct {
	b       *Board
	handle  ifc.Handle
	links   []ifc.ElcLink
	enabled bool
}

func (e *Elc) Open(cfg *ifc.ElcConfig) (ifc.Handle, error) {
	e.b.mu.Lock()
	defer e.b.mu.Unlock()
	if err := e.b.fault(OpElcOpen); err != nil {
		return ifc.NoHandle, err
	}
	if e.handle != ifc.NoHandle {
		return ifc.NoHandle, ifc.StatusAlreadyOpen
	}
	if cfg == nil {
		return ifc.NoHandle, ifc.StatusInvalidArgument
	}
	e.links = append([]ifc.ElcLink(nil), cfg.Links...)
	e.handle = elcHandle
	log.Debug("ELC opened with %d links", len(e.links))
	return e.handle, nil
}

func (e *Elc) Enable(h ifc.Handle) error {
	e.b.mu.Lock()
	defer e.b.mu.Unlock()
	if err := e.b.fault(OpElcEnable); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != e.handle {
		return ifc.StatusNotOpen
	}
	e.enabled = true
	return nil
}

func (e *Elc) Close(h ifc.Handle) error {
	e.b.mu.Lock()
	defer e.b.mu.Unlock()
	if err := e.b.fault(OpElcClose); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != e.handle {
		return ifc.StatusNotOpen
	}
	e.handle = ifc.NoHandle
	e.links = nil
	e.enabled = false
	log.Debug("ELC closed")
	return nil
}

func (e *Elc) IsOpen() bool {
	e.b.mu.Lock()
	defer e.b.mu.Unlock()
	return e.handle != ifc.NoHandle
}

// route returns the targets the event is linked to. Caller holds the board lock.
func (e *Elc) route(event ifc.Event) []ifc.Target {
	if !e.enabled {
		return nil
	}
	var targets []ifc.Target
	for _, link := range e.links {
		if link.Event == event {
			targets = append(targets, link.Target)
		}
	}
	return targets
}
