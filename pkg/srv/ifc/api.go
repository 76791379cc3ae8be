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
	"context"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
)

type ApiServer interface {
	Run(ctx context.Context) error
}

// StatusSource reports the state of the acquisition loop
type StatusSource interface {
	Status() *acquisition.Status
}

// SnapshotReader gives access to persisted snapshots
type SnapshotReader interface {
	Get(channel uint8, seq uint64) (*acquisition.Snapshot, error)
	Latest(channel uint8) (*acquisition.Snapshot, error)
	List(channel uint8) ([]uint64, error)
}
