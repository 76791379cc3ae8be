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
	"fmt"

	"github.com/imroc/req"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/command/ifc"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/config"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/srv"
)

type ApiClient struct {
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.ApiConfig) *ApiClient {
	return &ApiClient{
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Address, cfg.Port),
	}
}

func (c *ApiClient) get(path string, v interface{}) error {
	r, err := req.Get(c.ApiPrefix + path)
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return ErrResponse{Status: r.Response().Status, Body: r.String()}
	}
	return r.ToJSON(v)
}

// Status sends request to get the state of the acquisition loop
func (c *ApiClient) Status() (*acquisition.Status, error) {
	status := &acquisition.Status{}
	if err := c.get("/status", status); err != nil {
		return nil, err
	}
	return status, nil
}

// Latest sends request to get the most recently filled buffer
func (c *ApiClient) Latest() (*acquisition.Snapshot, error) {
	snap := &acquisition.Snapshot{}
	if err := c.get("/buffer/latest", snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Snapshot sends request to get a stored buffer
func (c *ApiClient) Snapshot(channel uint8, seq uint64) (*acquisition.Snapshot, error) {
	snap := &acquisition.Snapshot{}
	if err := c.get(fmt.Sprintf("/snapshots/%d/%d", channel, seq), snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Snapshots sends request to list the stored sequence numbers of a channel
func (c *ApiClient) Snapshots(channel uint8) ([]uint64, error) {
	list := &srv.SnapshotList{}
	if err := c.get(fmt.Sprintf("/snapshots/%d", channel), list); err != nil {
		return nil, err
	}
	return list.Seqs, nil
}
