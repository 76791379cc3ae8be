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

// Package diag opens the diagnostic text stream the log is written to
package diag

import (
	"io"

	"github.com/mattn/go-colorable"
	"github.com/tarm/serial"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// Open returns the serial port named in cfg or the console when no port is set
func Open(cfg *config.DiagConfig) (io.WriteCloser, error) {
	if cfg == nil || cfg.SerialPort == "" {
		return nopCloser{colorable.NewColorableStderr()}, nil
	}
	port, err := serial.OpenPort(&serial.Config{
		Name: cfg.SerialPort,
		Baud: cfg.Baud,
	})
	if err != nil {
		return nil, ErrOpenPort{Port: cfg.SerialPort, Err: err}
	}
	return port, nil
}

// Attach points the log to the diagnostic stream. release points the log
// back to fallback before the stream is closed.
func Attach(cfg *config.DiagConfig, level string, fallback io.Writer) (release func(), err error) {
	stream, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := log.Init(stream, level); err != nil {
		stream.Close()
		return nil, err
	}
	return func() {
		log.Init(fallback, level)
		if err := stream.Close(); err != nil {
			log.Warning("Closing diagnostic stream: %s", err)
		}
	}, nil
}
