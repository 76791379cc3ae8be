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

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

type SamplerConfig struct {
	SamplesPerChannel int     `yaml:"samples_per_channel"`
	Channels          []uint8 `yaml:"channels"`
	PollTicks         uint32  `yaml:"poll_ticks"`
	TickPeriod        string  `yaml:"tick_period"`
}

type TimerConfig struct {
	Period string `yaml:"period"`
}

type ApiConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type StoreConfig struct {
	DBPath string `yaml:"db_path"`
	// Keep is the number of snapshots kept per channel, 0 keeps everything
	Keep int `yaml:"keep"`
}

type DumpConfig struct {
	Dir        string `yaml:"dir,omitempty"`
	FilePrefix string `yaml:"file_prefix"`
}

// DiagConfig selects the diagnostic stream. Empty SerialPort means stderr.
type DiagConfig struct {
	SerialPort string `yaml:"serial_port,omitempty"`
	Baud       int    `yaml:"baud"`
}

// SignalConfig describes the analog input fed to the simulated board
type SignalConfig struct {
	Waveform  string  `yaml:"waveform"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	Offset    float64 `yaml:"offset"`
}

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Sampler  *SamplerConfig `yaml:"sampler"`
	Timer    *TimerConfig   `yaml:"timer"`
	Api      *ApiConfig     `yaml:"api"`
	Store    *StoreConfig   `yaml:"store"`
	Dump     *DumpConfig    `yaml:"dump"`
	Diag     *DiagConfig    `yaml:"diag"`
	Signal   *SignalConfig  `yaml:"signal"`
	filepath string
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the defaults. A missing file is not an error.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Sampler == nil || c.Timer == nil || c.Api == nil || c.Store == nil || c.Dump == nil || c.Diag == nil || c.Signal == nil {
		return ErrInvalidConfig{What: "missing section"}
	}
	if c.Sampler.SamplesPerChannel <= 0 {
		return ErrInvalidConfig{What: fmt.Sprintf("samples_per_channel must be positive, got %d", c.Sampler.SamplesPerChannel)}
	}
	if len(c.Sampler.Channels) == 0 {
		return ErrInvalidConfig{What: "at least one channel must be scanned"}
	}
	if c.Sampler.PollTicks == 0 {
		return ErrInvalidConfig{What: "poll_ticks must be positive"}
	}
	if _, err := c.TickDuration(); err != nil {
		return err
	}
	if _, err := c.TimerPeriod(); err != nil {
		return err
	}
	return nil
}

// TickDuration is the length of one scheduler tick
func (c *Config) TickDuration() (time.Duration, error) {
	return parsePositiveDuration("tick_period", c.Sampler.TickPeriod)
}

// TimerPeriod is the scan trigger period of the GPT
func (c *Config) TimerPeriod() (time.Duration, error) {
	return parsePositiveDuration("timer.period", c.Timer.Period)
}

// FillTime is how long the transfer needs to fill one buffer
func (c *Config) FillTime() (time.Duration, error) {
	period, err := c.TimerPeriod()
	if err != nil {
		return 0, err
	}
	return period * time.Duration(c.Sampler.SamplesPerChannel), nil
}

// PollInterval is the time the acquisition loop sleeps between polls
func (c *Config) PollInterval() (time.Duration, error) {
	tick, err := c.TickDuration()
	if err != nil {
		return 0, err
	}
	return tick * time.Duration(c.Sampler.PollTicks), nil
}

func parsePositiveDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, ErrInvalidConfig{What: fmt.Sprintf("%s: %s", name, err)}
	}
	if d <= 0 {
		return 0, ErrInvalidConfig{What: fmt.Sprintf("%s must be positive, got %s", name, value)}
	}
	return d, nil
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Sampler: &SamplerConfig{
			SamplesPerChannel: DefaultSamplesPerChannel,
			Channels:          []uint8{0},
			PollTicks:         DefaultPollTicks,
			TickPeriod:        DefaultTickPeriod,
		},
		Timer: &TimerConfig{
			Period: DefaultTimerPeriod,
		},
		Api: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		Store: &StoreConfig{
			DBPath: filepath.Join(DefaultConfigDir(), DefaultDBFile),
			Keep:   DefaultKeepSnapshots,
		},
		Dump: &DumpConfig{
			FilePrefix: DefaultDumpFilePrefix,
		},
		Diag: &DiagConfig{
			Baud: DefaultDiagBaud,
		},
		Signal: &SignalConfig{
			Waveform:  DefaultWaveform,
			Frequency: DefaultSignalFrequency,
			Amplitude: DefaultSignalAmplitude,
			Offset:    DefaultSignalOffset,
		},
		filepath: DefaultConfigPath(),
	}
}
