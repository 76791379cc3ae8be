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

package store

import (
	"fmt"
)

// ErrSnapshotNotFound returned when the channel has no snapshot with the sequence number
type ErrSnapshotNotFound struct {
	Channel uint8
	Seq     uint64
}

func (e ErrSnapshotNotFound) Error() string {
	if e.Seq == 0 {
		return fmt.Sprintf("No snapshot stored for channel %d", e.Channel)
	}
	return fmt.Sprintf("Snapshot not found: channel %d seq %d", e.Channel, e.Seq)
}
