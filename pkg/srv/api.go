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

// adc-sampler API
//
// # RESTful APIs to inspect the ADC0 sampling loop
//
// Schemes: http
// Host: localhost:8010
// Version: 1.0.0
//
//	Produces:
//	- application/json
//
// swagger:meta
package srv

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/srv/ifc"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/store"
)

//go:embed swagger.json
var swaggerSpec []byte

const (
	shutdownTimeout = 5 * time.Second
)

// SnapshotList ...
type SnapshotList struct {
	Channel uint8    `json:"channel"`
	Seqs    []uint64 `json:"seqs"`
}

type ApiServer struct {
	cfg     *config.ApiConfig
	status  ifc.StatusSource
	reader  ifc.SnapshotReader
	latest  *Latest
	handler http.Handler
}

var _ ifc.ApiServer = &ApiServer{}

// NewApiServer validates the embedded API document and builds the router
func NewApiServer(cfg *config.ApiConfig, status ifc.StatusSource, reader ifc.SnapshotReader, latest *Latest) (*ApiServer, error) {
	doc, err := loads.Analyzed(json.RawMessage(swaggerSpec), "")
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded API document %s version %s", doc.Spec().Info.Title, doc.Version())
	s := &ApiServer{
		cfg:    cfg,
		status: status,
		reader: reader,
		latest: latest,
	}
	s.handler = s.configureRouter()
	return s, nil
}

// Handler returns the root handler with recovery and access logging
func (s *ApiServer) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done
func (s *ApiServer) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)
	log.Info("Starting API server: address: %s port: %d", s.cfg.Address, s.cfg.Port)
	httpServer := &http.Server{
		Handler: s.handler,
		Addr:    addr,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warning("API server shutdown: %s", err)
		}
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *ApiServer) configureRouter() http.Handler {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/api").Subrouter()
	// swagger:operation GET /api/status status
	// ---
	// summary: state of the sampling loop
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	// swagger:operation GET /api/buffer/latest latest
	// ---
	// summary: most recently filled buffer, from the store after a restart
	subRouter.HandleFunc("/buffer/latest", s.handleLatest()).Methods("GET")
	subRouter.HandleFunc("/snapshots/{channel:[0-9]+}", s.handleSnapshotList()).Methods("GET")
	subRouter.HandleFunc("/snapshots/{channel:[0-9]+}/{seq:[0-9]+}", s.handleSnapshot()).Methods("GET")

	var h http.Handler = middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  "/swagger.json",
		Title:    "adc-sampler API",
	}, router)
	h = middleware.Spec("/", swaggerSpec, h)
	h = handlers.LoggingHandler(log.Writer(), h)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warning("Error while encoding response: %s", err)
	}
}

func parseChannel(vars map[string]string) (uint8, error) {
	channel, err := strconv.ParseUint(vars["channel"], 10, 8)
	if err != nil {
		return 0, ErrBadParam{Name: "channel", Value: vars["channel"]}
	}
	return uint8(channel), nil
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling status request")
		writeJSON(w, s.status.Status())
	}
}

func (s *ApiServer) handleLatest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.latest.Get()
		if err == nil {
			writeJSON(w, snap)
			return
		}
		// nothing filled since start, fall back to the store
		channel := uint8(0)
		if value := r.URL.Query().Get("channel"); value != "" {
			channel, err = parseChannel(map[string]string{"channel": value})
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		snap, err = s.reader.Latest(channel)
		var notFound store.ErrSnapshotNotFound
		if errors.As(err, &notFound) {
			http.Error(w, ErrNoSnapshot{}.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, snap)
	}
}

func (s *ApiServer) handleSnapshotList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		channel, err := parseChannel(vars)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		seqs, err := s.reader.List(channel)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, &SnapshotList{Channel: channel, Seqs: seqs})
	}
}

func (s *ApiServer) handleSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling snapshot request: channel: %s seq: %s", vars["channel"], vars["seq"])
		channel, err := parseChannel(vars)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		seq, err := strconv.ParseUint(vars["seq"], 10, 64)
		if err != nil {
			http.Error(w, ErrBadParam{Name: "seq", Value: vars["seq"]}.Error(), http.StatusBadRequest)
			return
		}
		snap, err := s.reader.Get(channel, seq)
		var notFound store.ErrSnapshotNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, snap)
	}
}
