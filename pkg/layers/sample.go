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

package layers

/*
Sample frame, little endian:

magic      [0:4]    53 41 4d 50 ("SAMP")
seq        [4:12]
buffer     [12]
channel    [13]
reserved   [14:16]
unix nano  [16:24]
count      [24:28]
samples    [28:28+2*count]
*/

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/WilsonQuah/RA6M3-ADC0-AN00-4kHz/pkg/acquisition"
)

const (
	// SampleLayerNum identifies the layer
	SampleLayerNum  = 2001
	SampleMagic     = 0x504d4153
	SampleHeaderLen = 28
	// MaxSamples bounds the sample count a frame header may announce
	MaxSamples = 1 << 20
)

type SampleLayer struct {
	layers.BaseLayer
	Seq       uint64
	Buffer    uint8
	Channel   uint8
	Timestamp int64
	Samples   []uint16
}

var SampleLayerType = gopacket.RegisterLayerType(SampleLayerNum,
	gopacket.LayerTypeMetadata{Name: "SampleLayerType", Decoder: gopacket.DecodeFunc(DecodeSampleLayer)})

// LayerType returns the type of the sample layer in the layer catalog
func (s *SampleLayer) LayerType() gopacket.LayerType {
	return SampleLayerType
}

func (s *SampleLayer) CanDecode() gopacket.LayerClass {
	return SampleLayerType
}

// NextLayerType is another sample frame when frames are concatenated
func (s *SampleLayer) NextLayerType() gopacket.LayerType {
	if len(s.Payload) == 0 {
		return gopacket.LayerTypeZero
	}
	return SampleLayerType
}

// Len is the number of bytes of the serialized frame
func (s *SampleLayer) Len() int {
	return SampleHeaderLen + 2*len(s.Samples)
}

// Serialize writes the frame to buf which must be at least Len bytes long
func (s *SampleLayer) Serialize(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], SampleMagic)
	binary.LittleEndian.PutUint64(buf[4:12], s.Seq)
	buf[12] = s.Buffer
	buf[13] = s.Channel
	buf[14], buf[15] = 0, 0
	binary.LittleEndian.PutUint64(buf[16:24], uint64(s.Timestamp))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(s.Samples)))
	for i, v := range s.Samples {
		binary.LittleEndian.PutUint16(buf[SampleHeaderLen+2*i:], v)
	}
}

// SerializeTo serializes the sample frame into bytes and writes the bytes to the SerializeBuffer
func (s *SampleLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if len(s.Samples) > MaxSamples {
		return ErrBadCount{Count: uint32(len(s.Samples))}
	}
	bytes, err := b.AppendBytes(s.Len())
	if err != nil {
		return err
	}
	s.Serialize(bytes)
	return nil
}

// FrameLen returns the full frame length announced by a frame header
func FrameLen(header []byte) (int, error) {
	if len(header) < SampleHeaderLen {
		return 0, ErrShortFrame{Want: SampleHeaderLen, Got: len(header)}
	}
	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != SampleMagic {
		return 0, ErrBadMagic{Magic: magic}
	}
	count := binary.LittleEndian.Uint32(header[24:28])
	if count > MaxSamples {
		return 0, ErrBadCount{Count: count}
	}
	return SampleHeaderLen + 2*int(count), nil
}

func (s *SampleLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	n, err := FrameLen(data)
	if err != nil {
		if _, short := err.(ErrShortFrame); short {
			df.SetTruncated()
		}
		return err
	}
	if len(data) < n {
		df.SetTruncated()
		return ErrShortFrame{Want: n, Got: len(data)}
	}
	s.BaseLayer = layers.BaseLayer{
		Contents: data[:n],
		Payload:  data[n:],
	}
	s.Seq = binary.LittleEndian.Uint64(data[4:12])
	s.Buffer = data[12]
	s.Channel = data[13]
	s.Timestamp = int64(binary.LittleEndian.Uint64(data[16:24]))
	count := (n - SampleHeaderLen) / 2
	s.Samples = make([]uint16, count)
	for i := range s.Samples {
		s.Samples[i] = binary.LittleEndian.Uint16(data[SampleHeaderLen+2*i:])
	}
	return nil
}

func DecodeSampleLayer(data []byte, p gopacket.PacketBuilder) error {
	s := &SampleLayer{}
	err := s.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(s)
	if len(s.Payload) == 0 {
		return nil
	}
	return p.NextDecoder(gopacket.DecodeFunc(DecodeSampleLayer))
}

func NewSampleLayer(snap *acquisition.Snapshot) *SampleLayer {
	return &SampleLayer{
		Seq:       snap.Seq,
		Buffer:    snap.Buffer,
		Channel:   snap.Channel,
		Timestamp: snap.Time.UnixNano(),
		Samples:   snap.Samples,
	}
}

func (s *SampleLayer) Snapshot() *acquisition.Snapshot {
	return &acquisition.Snapshot{
		Seq:     s.Seq,
		Buffer:  s.Buffer,
		Channel: s.Channel,
		Time:    time.Unix(0, s.Timestamp),
		Samples: s.Samples,
	}
}

// Marshal serializes the snapshot as one sample frame
func Marshal(snap *acquisition.Snapshot) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, NewSampleLayer(snap)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes every sample frame in data
func Unmarshal(data []byte) ([]*SampleLayer, error) {
	if len(data) == 0 {
		return nil, nil
	}
	packet := gopacket.NewPacket(data, SampleLayerType, gopacket.NoCopy)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, fmt.Errorf("decoding sample frames: %w", errLayer.Error())
	}
	var frames []*SampleLayer
	for _, l := range packet.Layers() {
		if frame, ok := l.(*SampleLayer); ok {
			frames = append(frames, frame)
		}
	}
	return frames, nil
}
