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
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

const (
	OutputYaml = "yaml"
	OutputJson = "json"
)

// ErrWrongOutput returned when the output format is not yaml or json
type ErrWrongOutput struct {
	Format string
}

func (e ErrWrongOutput) Error() string {
	return fmt.Sprintf("Wrong output format %q. Must be one of: %s, %s", e.Format, OutputYaml, OutputJson)
}

// PrintObject writes v in the given format using its json field names
func PrintObject(out io.Writer, v interface{}, format string) error {
	var data []byte
	var err error
	switch format {
	case OutputYaml:
		data, err = yaml.Marshal(v)
	case OutputJson:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return ErrWrongOutput{Format: format}
	}
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
