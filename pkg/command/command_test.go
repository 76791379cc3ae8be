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

package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/hal/sim"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/layers"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/store"
)

func newTestClient(t *testing.T, router *mux.Router) *ApiClient {
	t.Helper()
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return NewApiClient(&config.ApiConfig{Address: u.Hostname(), Port: port})
}

func TestApiClient(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"state":"halted","selector":1,"completions":5,"open":"{}","stage":"runtime","error":"boom"}`)
	})
	router.HandleFunc("/api/snapshots/0/3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"seq":3,"buffer":1,"channel":0,"samples":[1,2,3]}`)
	})
	router.HandleFunc("/api/snapshots/0", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"channel":0,"seqs":[2,3]}`)
	})
	router.HandleFunc("/api/buffer/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No buffer has been filled yet", http.StatusNotFound)
	})
	c := newTestClient(t, router)

	status, err := c.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != "halted" || status.Stage != "runtime" || status.Completions != 5 {
		t.Errorf("Unexpected status %+v", status)
	}

	snap, err := c.Snapshot(0, 3)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Buffer != 1 || len(snap.Samples) != 3 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	seqs, err := c.Snapshots(0)
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if len(seqs) != 2 || seqs[1] != 3 {
		t.Errorf("Unexpected sequence numbers %v", seqs)
	}

	_, err = c.Latest()
	var resp ErrResponse
	if !errors.As(err, &resp) {
		t.Fatalf("Expected ErrResponse, got %v", err)
	}
	if resp.Body == "" {
		t.Errorf("Expected the error body to be kept")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(&layers.SampleLayer{Seq: 4, Buffer: 1, Samples: []uint16{10, 30, 20}})
	if s.Min != 10 || s.Max != 30 || s.Mean != 20 || s.Count != 3 {
		t.Errorf("Unexpected summary %+v", s)
	}
	empty := Summarize(&layers.SampleLayer{})
	if empty.Count != 0 || empty.Max != 0 {
		t.Errorf("Unexpected summary %+v", empty)
	}
}

func TestDumpFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames")
	var data []byte
	for seq := uint64(1); seq <= 2; seq++ {
		frame, err := layers.Marshal(&acquisition.Snapshot{Seq: seq, Samples: []uint16{uint16(seq), 100}})
		if err != nil {
			t.Fatal(err)
		}
		data = append(data, frame...)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	summaries, err := DumpFile(path)
	if err != nil {
		t.Fatalf("DumpFile failed: %v", err)
	}
	if len(summaries) != 2 || summaries[1].Seq != 2 || summaries[1].Max != 100 {
		t.Errorf("Unexpected summaries %+v", summaries)
	}
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.SetPath(filepath.Join(dir, "config"))
	cfg.Sampler.SamplesPerChannel = 8
	cfg.Sampler.PollTicks = 2
	cfg.Sampler.TickPeriod = "1ms"
	cfg.Timer.Period = "1ms"
	cfg.Api.Port = 0
	cfg.Store.DBPath = filepath.Join(dir, "snapshots.db")
	cfg.Dump.Dir = filepath.Join(dir, "dump")
	return cfg
}

func TestRunSampler(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(300*time.Millisecond, cancel)
	if err := RunSampler(ctx, cfg); err != nil {
		t.Fatalf("RunSampler failed: %v", err)
	}

	snapshots, err := store.NewSnapshotStore(cfg.Store.DBPath, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer snapshots.Close()
	latest, err := snapshots.Latest(0)
	if err != nil {
		t.Fatalf("Expected stored snapshots: %v", err)
	}
	if len(latest.Samples) != 8 {
		t.Errorf("Expected 8 samples, got %d", len(latest.Samples))
	}
	if latest.Buffer != uint8((latest.Seq-1)%2) {
		t.Errorf("Snapshot %d came from buffer %d", latest.Seq, latest.Buffer)
	}

	files, err := filepath.Glob(filepath.Join(cfg.Dump.Dir, "*"))
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected one frame file, got %v %v", files, err)
	}
	summaries, err := DumpFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) == 0 {
		t.Errorf("Expected frames in %s", files[0])
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunSamplerServesHaltedStatus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Api.Port = freePort(t)
	board, err := NewBoard(cfg)
	if err != nil {
		t.Fatal(err)
	}
	injected := errors.New("injected")
	board.Fail(sim.OpAdcOpen, injected)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- RunSamplerOnBoard(ctx, cfg, board)
	}()

	client := NewApiClient(cfg.Api)
	var status *acquisition.Status
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err = client.Status()
		if err == nil && status.State == acquisition.StateHalted.String() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status == nil || status.State != acquisition.StateHalted.String() {
		t.Fatalf("Expected halted status from the API, got %+v %v", status, err)
	}
	if status.Stage != acquisition.StageAdcOpen.String() || status.Error == "" {
		t.Errorf("Expected stage %s with an error, got %+v", acquisition.StageAdcOpen, status)
	}

	select {
	case err := <-done:
		t.Fatalf("Expected the API to stay up after the halt, returned %v", err)
	default:
	}
	cancel()
	err = <-done
	var fatal *acquisition.FatalError
	if !errors.As(err, &fatal) || !errors.Is(err, injected) {
		t.Errorf("Expected the fatal error after interrupt, got %v", err)
	}
}
