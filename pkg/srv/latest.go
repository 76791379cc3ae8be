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

package srv

import (
	"sync"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
)

// Latest holds the most recently filled buffer
type Latest struct {
	mu   sync.RWMutex
	snap *acquisition.Snapshot
}

var _ acquisition.Sink = &Latest{}

func (l *Latest) Consume(snap *acquisition.Snapshot) error {
	l.mu.Lock()
	l.snap = snap
	l.mu.Unlock()
	return nil
}

// Get returns ErrNoSnapshot until the first buffer is consumed
func (l *Latest) Get() (*acquisition.Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.snap == nil {
		return nil, ErrNoSnapshot{}
	}
	return l.snap, nil
}
