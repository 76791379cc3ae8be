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

package config

const (
	ConfigDir                = ".adc-sampler"
	ConfigFile               = "config"
	DefaultLogLevel          = "info"
	DefaultSamplesPerChannel = 1024
	DefaultPollTicks         = 10
	DefaultTickPeriod        = "10ms"
	DefaultTimerPeriod       = "250us"
	DefaultApiAddress        = "127.0.0.1"
	DefaultApiPort           = 8010
	DefaultDBFile            = "snapshots.db"
	DefaultKeepSnapshots     = 256
	DefaultDumpFilePrefix    = "adc0_an0"
	DefaultDiagBaud          = 115200
	DefaultWaveform          = "sine"
	DefaultSignalFrequency   = 50.0
	DefaultSignalAmplitude   = 2000
	DefaultSignalOffset      = 2048
	AdcResolutionBits        = 12
)
