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

package layers

import (
	"fmt"
)

// ErrShortFrame returned when there are fewer bytes than the frame needs
type ErrShortFrame struct {
	Want int
	Got  int
}

func (e ErrShortFrame) Error() string {
	return fmt.Sprintf("Short sample frame: want %d bytes, got %d", e.Want, e.Got)
}

// ErrBadMagic returned when a frame does not start with SampleMagic
type ErrBadMagic struct {
	Magic uint32
}

func (e ErrBadMagic) Error() string {
	return fmt.Sprintf("Bad sample frame magic: %#08x", e.Magic)
}

// ErrBadCount returned when a frame announces more than MaxSamples samples
type ErrBadCount struct {
	Count uint32
}

func (e ErrBadCount) Error() string {
	return fmt.Sprintf("Bad sample frame count %d, at most %d samples per frame", e.Count, MaxSamples)
}
