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

package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/command"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/diag"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

const (
	DumpDirOptionName    = "dump-dir"
	SerialPortOptionName = "diag-port"
	WaveformOptionName   = "waveform"
)

func NewCommand(cfg *config.Config, version string) *cobra.Command {
	var dumpDir, serialPort, waveform string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sampling loop and the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dumpDir != "" {
				cfg.Dump.Dir = dumpDir
			}
			if serialPort != "" {
				cfg.Diag.SerialPort = serialPort
			}
			if waveform != "" {
				cfg.Signal.Waveform = waveform
			}

			release, err := diag.Attach(cfg.Diag, cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer release()

			log.Info("adc-sampler %s", version)
			log.Info("ADC0 channel(s) %v, %d samples per buffer, timer period %s",
				cfg.Sampler.Channels, cfg.Sampler.SamplesPerChannel, cfg.Timer.Period)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return command.RunSampler(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&dumpDir, DumpDirOptionName, "", "Directory to write sample frame files to")
	cmd.Flags().StringVar(&serialPort, SerialPortOptionName, "", "Serial port for the diagnostic stream")
	cmd.Flags().StringVar(&waveform, WaveformOptionName, "", "Simulated input: sine, square, sawtooth, constant")
	return cmd
}
