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

package ifc

import (
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
)

type ApiClient interface {
	Status() (*acquisition.Status, error)
	Latest() (*acquisition.Snapshot, error)
	Snapshot(channel uint8, seq uint64) (*acquisition.Snapshot, error)
	Snapshots(channel uint8) ([]uint64, error)
}
