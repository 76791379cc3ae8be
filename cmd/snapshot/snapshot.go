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

package snapshot

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/command"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
)

const (
	ChannelOptionName = "channel"
	OutputOptionName  = "output"
	Latest            = "latest"
)

const (
	snapshotExample = `
List stored sequence numbers
# adc-sampler snapshot

Show the most recently filled buffer
# adc-sampler snapshot latest

Show a stored buffer as json
# adc-sampler snapshot 42 -o json
`
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var channel uint8
	var output string
	cmd := &cobra.Command{
		Use:     "snapshot [seq|latest]",
		Short:   "Show filled buffers",
		Example: snapshotExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg.Api)
			if len(args) == 0 {
				seqs, err := apiClient.Snapshots(channel)
				if err != nil {
					return err
				}
				for _, seq := range seqs {
					fmt.Fprintln(cmd.OutOrStdout(), seq)
				}
				return nil
			}

			var snap *acquisition.Snapshot
			var err error
			if args[0] == Latest {
				snap, err = apiClient.Latest()
			} else {
				seq, parseErr := strconv.ParseUint(args[0], 10, 64)
				if parseErr != nil {
					return parseErr
				}
				snap, err = apiClient.Snapshot(channel, seq)
			}
			if err != nil {
				return err
			}
			return command.PrintObject(cmd.OutOrStdout(), snap, output)
		},
	}
	cmd.Flags().Uint8Var(&channel, ChannelOptionName, 0, "ADC channel")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", command.OutputYaml, "Output format: yaml or json")
	return cmd
}
