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

package command

import (
	"context"
	"errors"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/sim"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/srv"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/store"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/writer"
)

// NewSamplerConfig ...
func NewSamplerConfig(cfg *config.Config) (acquisition.Config, error) {
	period, err := cfg.TimerPeriod()
	if err != nil {
		return acquisition.Config{}, err
	}
	return acquisition.Config{
		SamplesPerChannel: cfg.Sampler.SamplesPerChannel,
		Channels:          cfg.Sampler.Channels,
		PollTicks:         cfg.Sampler.PollTicks,
		TimerPeriod:       period,
		AdcUnit:           0,
		Resolution:        config.AdcResolutionBits,
	}, nil
}

// NewBoard builds the simulated board with the configured input signal
func NewBoard(cfg *config.Config) (*sim.Board, error) {
	period, err := cfg.TimerPeriod()
	if err != nil {
		return nil, err
	}
	return sim.NewBoard(&sim.Signal{
		Waveform:     cfg.Signal.Waveform,
		Frequency:    cfg.Signal.Frequency,
		Amplitude:    cfg.Signal.Amplitude,
		Offset:       cfg.Signal.Offset,
		Resolution:   config.AdcResolutionBits,
		SamplePeriod: period,
	}), nil
}

// RunSampler runs the acquisition loop on the simulated board together with
// the API server until ctx is done. After a fatal halt the API keeps serving
// the halted status until ctx is done and the fatal error is returned.
func RunSampler(ctx context.Context, cfg *config.Config) error {
	board, err := NewBoard(cfg)
	if err != nil {
		return err
	}
	return RunSamplerOnBoard(ctx, cfg, board)
}

func RunSamplerOnBoard(ctx context.Context, cfg *config.Config, board *sim.Board) error {
	samplerCfg, err := NewSamplerConfig(cfg)
	if err != nil {
		return err
	}
	tick, err := cfg.TickDuration()
	if err != nil {
		return err
	}
	if fill, err := cfg.FillTime(); err == nil {
		poll, _ := cfg.PollInterval()
		log.Debug("Buffer fill time %s, poll interval %s", fill, poll)
		if fill <= poll {
			log.Warning("Buffer fill time %s does not exceed the poll interval %s, completions may be missed", fill, poll)
		}
	}

	snapshots, err := store.NewSnapshotStore(cfg.Store.DBPath, cfg.Store.Keep)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	latest := &srv.Latest{}
	sinks := []acquisition.Sink{latest, snapshots}
	if cfg.Dump.Dir != "" {
		w, err := writer.NewWriter(cfg.Dump.Dir, cfg.Dump.FilePrefix)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Flush(); err != nil {
				log.Warning("Error while flushing %s: %s", w.Name(), err)
			}
		}()
		sinks = append(sinks, w)
	}

	sampler := acquisition.NewSampler(samplerCfg, acquisition.Drivers{
		Elc:       board.ELC,
		Transfer:  board.DTC,
		Adc:       board.ADC,
		Timer:     board.GPT,
		Scheduler: &sim.TickScheduler{Tick: tick},
	}, sinks...)

	api, err := srv.NewApiServer(cfg.Api, sampler, snapshots, latest)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	apiDone := make(chan error, 1)
	go func() {
		apiDone <- api.Run(ctx)
	}()

	err = acquisition.Supervise(ctx, sampler, acquisition.HaltFunc(func(fatal *acquisition.FatalError) {
		log.Error("%s", fatal)
	}))
	var fatal *acquisition.FatalError
	if errors.As(err, &fatal) {
		log.Info("Acquisition halted, API server keeps running until interrupted")
		select {
		case <-ctx.Done():
		case apiErr := <-apiDone:
			apiDone <- apiErr
		}
	}
	cancel()
	if apiErr := <-apiDone; apiErr != nil {
		log.Warning("API server: %s", apiErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Info("Acquisition stopped, released all peripherals")
		return nil
	}
	return err
}
