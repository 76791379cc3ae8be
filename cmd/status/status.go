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

package status

import (
	"github.com/spf13/cobra"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/command"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
)

const (
	OutputOptionName = "output"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the sampling loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := command.NewApiClient(cfg.Api).Status()
			if err != nil {
				return err
			}
			return command.PrintObject(cmd.OutOrStdout(), status, output)
		},
	}
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", command.OutputYaml, "Output format: yaml or json")
	return cmd
}
