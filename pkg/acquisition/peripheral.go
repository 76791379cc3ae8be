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
	"strings"
)

type Peripheral int

const (
	PeripheralELC Peripheral = iota
	PeripheralDTC
	PeripheralADC
	PeripheralGPT
	peripheralCount
)

var peripheralNames = [peripheralCount]string{"ELC", "DTC", "ADC", "GPT"}

func (p Peripheral) String() string {
	if p < 0 || p >= peripheralCount {
		return "unknown"
	}
	return peripheralNames[p]
}

// PeripheralSet is a bitmask of open peripherals
type PeripheralSet uint8

func SetOf(ps ...Peripheral) PeripheralSet {
	var set PeripheralSet
	for _, p := range ps {
		set = set.With(p)
	}
	return set
}

func (s PeripheralSet) Has(p Peripheral) bool {
	return s&(1<<uint(p)) != 0
}

func (s PeripheralSet) With(p Peripheral) PeripheralSet {
	return s | 1<<uint(p)
}

func (s PeripheralSet) Without(p Peripheral) PeripheralSet {
	return s &^ (1 << uint(p))
}

func (s PeripheralSet) String() string {
	var names []string
	for p := PeripheralELC; p < peripheralCount; p++ {
		if s.Has(p) {
			names = append(names, p.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}
