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

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/layers"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file %s: %v", path, err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Errorf("Expected config init to refuse overwriting")
	}
	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "samples_per_channel: 1024") {
		t.Errorf("Unexpected config output %s", out)
	}
}

func TestWrongLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if _, err := execute(t, "--config", path, "--log-level", "verbose", "config", "show"); err == nil {
		t.Errorf("Expected wrong log level to fail")
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frames")
	frame, err := layers.Marshal(&acquisition.Snapshot{Seq: 12, Buffer: 1, Samples: []uint16{5, 15}})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, frame, 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", filepath.Join(dir, "config"), "dump", path)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one frame, got %q", out)
	}
	fields := strings.Fields(lines[1])
	if fields[0] != "12" || fields[1] != "1" || fields[len(fields)-1] != "10.00" {
		t.Errorf("Unexpected frame line %q", lines[1])
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "config"), "completion")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !strings.Contains(out, "adc-sampler") {
		t.Errorf("Expected completion script for adc-sampler")
	}
}
