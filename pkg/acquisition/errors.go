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
	"errors"
	"fmt"
)

// ErrScanAborted is raised when the ADC reported an error instead of the
// expected scan complete event
var ErrScanAborted = errors.New("adc scan complete event not received")

// FatalError ends the acquisition. Closed lists the peripherals released by
// the teardown, in close order.
type FatalError struct {
	Stage   Stage
	Message string
	Err     error
	Closed  []Peripheral
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s (stage: %s): %v", e.Message, e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
