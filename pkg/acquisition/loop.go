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
	"errors"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

// UpdateTransfer flips the buffer selector, points the descriptor at the
// selected buffer and re-arms the transfer. The completion flag is cleared
// only after the transfer is armed again. The buffer filled by the finished
// transfer goes to the sinks.
func (s *Sampler) UpdateTransfer() error {
	s.mu.Lock()
	s.selector ^= 1
	sel := s.selector
	s.completions++
	seq := s.completions
	s.mu.Unlock()

	s.desc.Dest = s.buffers[sel][:]
	s.desc.Length = s.cfg.SamplesPerChannel

	err := s.drv.Transfer.Enable(s.handle(PeripheralDTC))
	if err != nil {
		return s.HandleError(err, "DTC enable failed for ADC0", StageRuntime)
	}

	s.Flags.Complete.Store(false)

	s.publish(seq, sel^1)
	return nil
}

// Poll evaluates the flags once. A pending completion is served before a
// pending error, so both set in the same poll lose no completion.
func (s *Sampler) Poll() error {
	if fatal := s.Fatal(); fatal != nil {
		return fatal
	}
	if s.Flags.Complete.Load() {
		return s.UpdateTransfer()
	}
	if s.Flags.Error.Load() {
		return s.HandleError(ErrScanAborted, "ADC0 scan complete event not received", StageRuntime)
	}
	return nil
}

// Run polls and sleeps until a fatal error or the context is done. On
// cancellation all peripherals are released.
func (s *Sampler) Run(ctx context.Context) error {
	for {
		if err := s.Poll(); err != nil {
			return err
		}
		if err := s.drv.Scheduler.Sleep(ctx, s.cfg.PollTicks); err != nil {
			s.Shutdown()
			return err
		}
	}
}

// Halter is the top level reaction to a fatal error
type Halter interface {
	Halt(fatal *FatalError)
}

type HaltFunc func(fatal *FatalError)

func (f HaltFunc) Halt(fatal *FatalError) {
	f(fatal)
}

// Supervise initializes, starts and runs the sampler. A fatal error is
// passed to halter before it is returned.
func Supervise(ctx context.Context, s *Sampler, halter Halter) error {
	err := s.Initialize()
	if err == nil {
		err = s.Start()
	}
	if err == nil {
		err = s.Run(ctx)
	}

	var fatal *FatalError
	if errors.As(err, &fatal) {
		log.Error("Acquisition halted at stage %s, released %v", fatal.Stage, fatal.Closed)
		if halter != nil {
			halter.Halt(fatal)
		}
	}
	return err
}
