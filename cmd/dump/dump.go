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

package dump

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/command"
)

const (
	OutputOptionName = "output"
	OutputTable      = "table"
)

func NewCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Summarize the frames of a sample frame file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := command.DumpFile(args[0])
			if err != nil {
				return err
			}
			if output != OutputTable {
				return command.PrintObject(cmd.OutOrStdout(), summaries, output)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%8s %3s %3s %6s %6s %6s %9s\n", "SEQ", "BUF", "CH", "COUNT", "MIN", "MAX", "MEAN")
			for _, s := range summaries {
				fmt.Fprintf(out, "%8d %3d %3d %6d %6d %6d %9.2f\n", s.Seq, s.Buffer, s.Channel, s.Count, s.Min, s.Max, s.Mean)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", OutputTable, "Output format: table, yaml or json")
	return cmd
}
