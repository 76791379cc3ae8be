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
	"time"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

const gptHandle ifc.Handle = 0x697

// Gpt overflows once per period. A zero period leaves the timer in manual
// mode where only Tick advances it.
type Gpt struct {
	b       *Board
	handle  ifc.Handle
	period  time.Duration
	running bool
	count   uint64
	stop    chan struct{}
	done    chan struct{}
}

func (g *Gpt) Open(cfg *ifc.TimerConfig) (ifc.Handle, error) {
	g.b.mu.Lock()
	defer g.b.mu.Unlock()
	if err := g.b.fault(OpGptOpen); err != nil {
		return ifc.NoHandle, err
	}
	if g.handle != ifc.NoHandle {
		return ifc.NoHandle, ifc.StatusAlreadyOpen
	}
	if cfg == nil || cfg.Period < 0 {
		return ifc.NoHandle, ifc.StatusInvalidArgument
	}
	g.period = cfg.Period
	g.handle = gptHandle
	log.Debug("GPT channel %d opened, period: %s", cfg.Channel, cfg.Period)
	return g.handle, nil
}

func (g *Gpt) Start(h ifc.Handle) error {
	g.b.mu.Lock()
	defer g.b.mu.Unlock()
	if err := g.b.fault(OpGptStart); err != nil {
		return err
	}
	if h == ifc.NoHandle || h != g.handle {
		return ifc.StatusNotOpen
	}
	if g.running {
		return ifc.StatusInUse
	}
	g.running = true
	if g.period > 0 {
		g.stop = make(chan struct{})
		g.done = make(chan struct{})
		go g.run(g.period, g.stop, g.done)
	}
	return nil
}

func (g *Gpt) run(period time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.b.tick()
		}
	}
}

// Close stops the counter and waits for the tick goroutine to exit
func (g *Gpt) Close(h ifc.Handle) error {
	g.b.mu.Lock()
	if err := g.b.fault(OpGptClose); err != nil {
		g.b.mu.Unlock()
		return err
	}
	if h == ifc.NoHandle || h != g.handle {
		g.b.mu.Unlock()
		return ifc.StatusNotOpen
	}
	stop, done := g.stop, g.done
	g.handle = ifc.NoHandle
	g.running = false
	g.stop, g.done = nil, nil
	g.b.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	log.Debug("GPT closed")
	return nil
}

// Tick overflows the counter once, as if the period elapsed
func (g *Gpt) Tick() {
	g.b.tick()
}

func (g *Gpt) IsOpen() bool {
	g.b.mu.Lock()
	defer g.b.mu.Unlock()
	return g.handle != ifc.NoHandle
}

func (g *Gpt) Count() uint64 {
	g.b.mu.Lock()
	defer g.b.mu.Unlock()
	return g.count
}
