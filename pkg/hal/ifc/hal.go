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

// Package ifc holds the capability interfaces the acquisition engine
// consumes: event link, transfer, ADC, timer and the scheduler sleep.
package ifc

import (
	"context"
	"fmt"
	"time"
)

// Handle identifies an opened peripheral instance. The zero Handle is never
// returned by a successful Open.
type Handle uint32

const NoHandle Handle = 0

// Status is the platform status code returned by the drivers
type Status int

const (
	StatusSuccess Status = iota
	StatusAlreadyOpen
	StatusNotOpen
	StatusInvalidArgument
	StatusNotEnabled
	StatusAborted
	StatusInUse
)

var statusNames = map[Status]string{
	StatusSuccess:         "success",
	StatusAlreadyOpen:     "already open",
	StatusNotOpen:         "not open",
	StatusInvalidArgument: "invalid argument",
	StatusNotEnabled:      "not enabled",
	StatusAborted:         "aborted",
	StatusInUse:           "in use",
}

func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status %d", int(s))
}

// Event is a hardware signal that can be routed by the event link controller
type Event int

const (
	EventNone Event = iota
	EventGptCounterOverflow
	EventAdcScanEnd
)

func (e Event) String() string {
	switch e {
	case EventGptCounterOverflow:
		return "gpt-counter-overflow"
	case EventAdcScanEnd:
		return "adc-scan-end"
	default:
		return "none"
	}
}

// Target is the peripheral input a routed event drives
type Target int

const (
	TargetAdcStart Target = iota
	TargetGptStart
)

type ElcLink struct {
	Event  Event
	Target Target
}

type ElcConfig struct {
	Links []ElcLink
}

type Elc interface {
	Open(cfg *ElcConfig) (Handle, error)
	// Enable activates all configured links at once
	Enable(h Handle) error
	Close(h Handle) error
}

type TransferMode int

const (
	TransferModeNormal TransferMode = iota
	TransferModeRepeat
	TransferModeBlock
)

// TransferInfo is one transfer descriptor. Dest is the destination window,
// &Dest[0] being the destination address; Length is the element count.
type TransferInfo struct {
	Mode   TransferMode
	Source uint8
	Dest   []uint16
	Length int
}

type TransferConfig struct {
	Activation Event
	Info       *TransferInfo
}

type Transfer interface {
	Open(cfg *TransferConfig) (Handle, error)
	Reconfigure(h Handle, info *TransferInfo) error
	// Enable arms the transfer for the next activation
	Enable(h Handle) error
	Close(h Handle) error
}

type AdcEvent int

const (
	AdcEventScanComplete AdcEvent = iota
	AdcEventScanError
)

func (e AdcEvent) String() string {
	if e == AdcEventScanComplete {
		return "scan-complete"
	}
	return "scan-error"
}

// AdcCallback runs in the callback context. It must not block.
type AdcCallback func(event AdcEvent)

type AdcConfig struct {
	Unit       uint8
	Resolution int
	Trigger    Event
	Callback   AdcCallback
}

type AdcChannelConfig struct {
	Channels []uint8
}

type Adc interface {
	Open(cfg *AdcConfig) (Handle, error)
	ConfigureChannels(h Handle, cfg *AdcChannelConfig) error
	ScanStart(h Handle) error
	Close(h Handle) error
}

type TimerConfig struct {
	Channel uint8
	Period  time.Duration
}

type Timer interface {
	Open(cfg *TimerConfig) (Handle, error)
	Start(h Handle) error
	Close(h Handle) error
}

// Scheduler is the cooperative yield primitive of the acquisition task
type Scheduler interface {
	Sleep(ctx context.Context, ticks uint32) error
}
