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
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/ifc"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

// Initialize opens and links the event link controller, the transfer, the
// ADC and the timer. The first failure releases what was opened before it
// and is returned as a *FatalError.
func (s *Sampler) Initialize() error {
	elc, err := s.drv.Elc.Open(&ifc.ElcConfig{
		Links: []ifc.ElcLink{
			{Event: ifc.EventGptCounterOverflow, Target: ifc.TargetAdcStart},
		},
	})
	if err != nil {
		return s.HandleError(err, "ELC open failed", StageElcOpen)
	}
	s.opening(PeripheralELC, elc)

	dtc, err := s.drv.Transfer.Open(&ifc.TransferConfig{Activation: ifc.EventAdcScanEnd})
	if err != nil {
		return s.HandleError(err, "DTC open failed", StageDtcOpen)
	}
	s.opening(PeripheralDTC, dtc)

	// the transfer follows the descriptor from now on
	err = s.drv.Transfer.Reconfigure(dtc, &s.desc)
	if err != nil {
		return s.HandleError(err, "DTC reconfiguration for the ADC channel group failed", StageDtcReconfigure)
	}

	adc, err := s.drv.Adc.Open(&ifc.AdcConfig{
		Unit:       s.cfg.AdcUnit,
		Resolution: s.cfg.Resolution,
		Trigger:    ifc.EventGptCounterOverflow,
		Callback:   s.Callback,
	})
	if err != nil {
		return s.HandleError(err, "ADC open failed", StageAdcOpen)
	}
	s.opening(PeripheralADC, adc)

	err = s.drv.Adc.ConfigureChannels(adc, &ifc.AdcChannelConfig{Channels: s.cfg.Channels})
	if err != nil {
		return s.HandleError(err, "ADC channel configuration failed", StageAdcChannels)
	}

	gpt, err := s.drv.Timer.Open(&ifc.TimerConfig{Period: s.cfg.TimerPeriod})
	if err != nil {
		return s.HandleError(err, "GPT open failed", StageGptOpen)
	}
	s.opening(PeripheralGPT, gpt)

	err = s.drv.Elc.Enable(elc)
	if err != nil {
		return s.HandleError(err, "ELC enable failed", StageElcEnable)
	}

	err = s.drv.Transfer.Enable(dtc)
	if err != nil {
		return s.HandleError(err, "DTC enable failed", StageDtcEnable)
	}

	log.Debug("Acquisition initialized: opened %v", s.Opened())
	return nil
}

// Start starts the ADC scan and then the timer that triggers it
func (s *Sampler) Start() error {
	err := s.drv.Adc.ScanStart(s.handle(PeripheralADC))
	if err != nil {
		return s.HandleError(err, "ADC scan start failed", StageRuntime)
	}

	err = s.drv.Timer.Start(s.handle(PeripheralGPT))
	if err != nil {
		return s.HandleError(err, "GPT start failed", StageRuntime)
	}

	s.setState(StateRunning)
	log.Info("ADC%d channel %d periodic scan started", s.cfg.AdcUnit, s.channel())
	return nil
}
