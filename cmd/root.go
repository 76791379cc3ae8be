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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/cmd/completion"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/cmd/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/cmd/dump"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/cmd/run"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/cmd/snapshot"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/cmd/status"
	pkgconfig "github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

// Version is set at build time
var Version = "dev"

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	cfg := pkgconfig.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:          "adc-sampler",
		Short:        "ADC0 channel 0 periodic sampling with double buffered transfers",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg.SetPath(configPath)
			}
			if err := cfg.Load(); err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(run.NewCommand(cfg, Version))
	cmd.AddCommand(status.NewCommand(cfg))
	cmd.AddCommand(snapshot.NewCommand(cfg))
	cmd.AddCommand(dump.NewCommand())
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "",
		fmt.Sprintf("Config file. Default %s", pkgconfig.DefaultConfigPath()))
	return cmd
}
