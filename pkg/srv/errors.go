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
	"fmt"
)

// ErrNoSnapshot returned when no buffer has been filled yet
type ErrNoSnapshot struct{}

func (e ErrNoSnapshot) Error() string {
	return "No buffer has been filled yet"
}

// ErrBadParam returned when a path parameter can not be parsed
type ErrBadParam struct {
	Name  string
	Value string
}

func (e ErrBadParam) Error() string {
	return fmt.Sprintf("Wrong value %q for parameter %s", e.Value, e.Name)
}
