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

package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/layers"
	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/log"
)

const (
	BucketNamePrefix = "ch_"
)

// SnapshotStore keeps the filled buffers in a bucket per channel, keyed by
// the big endian sequence number
type SnapshotStore struct {
	DB   *bbolt.DB
	keep int
}

var _ acquisition.Sink = &SnapshotStore{}

func NewSnapshotStore(path string, keep int) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{
		DB:   db,
		keep: keep,
	}, nil
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func bucketName(channel uint8) []byte {
	return []byte(fmt.Sprintf("%s%02d", BucketNamePrefix, channel))
}

// Close ...
func (s *SnapshotStore) Close() error {
	return s.DB.Close()
}

// Consume stores the snapshot and drops the oldest ones beyond keep
func (s *SnapshotStore) Consume(snap *acquisition.Snapshot) error {
	data, err := layers.Marshal(snap)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(snap.Channel))
		if err != nil {
			return err
		}
		if err := b.Put(uint64ToByte(snap.Seq), data); err != nil {
			return err
		}
		return s.prune(b)
	})
}

func (s *SnapshotStore) prune(b *bbolt.Bucket) error {
	if s.keep <= 0 {
		return nil
	}
	// Stats only sees committed pages, count with a cursor inside the tx
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	if len(keys) <= s.keep {
		return nil
	}
	old := keys[:len(keys)-s.keep]
	for _, k := range old {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	log.Debug("Pruned %d snapshots", len(old))
	return nil
}

func decode(data []byte) (*acquisition.Snapshot, error) {
	frames, err := layers.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if len(frames) != 1 {
		return nil, fmt.Errorf("expected one frame per snapshot, got %d", len(frames))
	}
	return frames[0].Snapshot(), nil
}

// Get ...
func (s *SnapshotStore) Get(channel uint8, seq uint64) (*acquisition.Snapshot, error) {
	var snap *acquisition.Snapshot
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(channel))
		if b == nil {
			return ErrSnapshotNotFound{Channel: channel, Seq: seq}
		}
		data := b.Get(uint64ToByte(seq))
		if data == nil {
			return ErrSnapshotNotFound{Channel: channel, Seq: seq}
		}
		var err error
		snap, err = decode(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Latest returns the snapshot with the highest sequence number
func (s *SnapshotStore) Latest(channel uint8) (*acquisition.Snapshot, error) {
	var snap *acquisition.Snapshot
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(channel))
		if b == nil {
			return ErrSnapshotNotFound{Channel: channel}
		}
		k, data := b.Cursor().Last()
		if k == nil {
			return ErrSnapshotNotFound{Channel: channel}
		}
		var err error
		snap, err = decode(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns the stored sequence numbers in ascending order
func (s *SnapshotStore) List(channel uint8) ([]uint64, error) {
	seqs := []uint64{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(channel))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			seqs = append(seqs, binary.BigEndian.Uint64(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return seqs, nil
}
