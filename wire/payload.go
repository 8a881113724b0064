package wire

import (
	"encoding/binary"
	"errors"
)

// ErrShortPayload is returned when a typed payload decode doesn't find
// enough bytes for the fixed-size record it expects.
var ErrShortPayload = errors.New("wire: payload too short for type")

// EncodeU32 / DecodeU32 encode the scalar unsigned payload used by
// GET_DEV_FEATURES (dev_id), DEV_DEINIT (dev_id), REMOVE_SRC/REMOVE_DST
// (buf_id), START/STOP/PAUSE/RESUME (dev_id), and GET_DEV_NUM /
// ADD_SRC / ADD_DST response payloads.
func EncodeU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func DecodeU32(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, ErrShortPayload
	}
	return binary.LittleEndian.Uint32(data), nil
}

// EncodeI32 / DecodeI32 encode the scalar signed payload used by the
// ERROR command and by every NAK (the negative error code).
func EncodeI32(v int32) []byte {
	return EncodeU32(uint32(v))
}

func DecodeI32(data []byte) (int32, error) {
	v, err := DecodeU32(data)
	return int32(v), err
}

const bufNameLen = 64

// BufferType selects the layout hint of a buffer descriptor.
type BufferType uint32

const (
	Circular  BufferType = 0
	Scattered BufferType = 1
)

// BufDescriptor is the ADD_SRC/ADD_DST request payload describing a
// remote audio buffer. Name is nul-padded to 64 bytes on the wire.
type BufDescriptor struct {
	Name       string
	DeviceID   int32
	Addr       uint64
	BufSize    uint32
	Type       BufferType
	GapSize    uint32
	FragSize   uint32
	Channels   uint32
	PCMFormat  PCMFormat
	PCMRate    uint32 // rate mask, see RateBit
}

// bufDescriptorSize: name(64) + device_id(4) + addr(8) + buf_size(4) +
// type(4) + gap(4) + frag_size(4) + channels(4) + format(4) + rate(4).
const bufDescriptorSize = bufNameLen + 4 + 8 + 4 + 4 + 4 + 4 + 4 + 4 + 4

func EncodeBufDescriptor(b BufDescriptor) []byte {
	buf := make([]byte, bufDescriptorSize)
	nameBytes := []byte(b.Name)
	if len(nameBytes) > bufNameLen {
		nameBytes = nameBytes[:bufNameLen]
	}
	copy(buf[0:bufNameLen], nameBytes)
	off := bufNameLen
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(b.DeviceID))
	off += 4
	binary.LittleEndian.PutUint64(buf[off:off+8], b.Addr)
	off += 8
	binary.LittleEndian.PutUint32(buf[off:off+4], b.BufSize)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(b.Type))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], b.GapSize)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], b.FragSize)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], b.Channels)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(b.PCMFormat))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], b.PCMRate)
	return buf
}

func DecodeBufDescriptor(data []byte) (BufDescriptor, error) {
	if len(data) != bufDescriptorSize {
		return BufDescriptor{}, ErrShortPayload
	}
	name := data[0:bufNameLen]
	if i := indexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	off := bufNameLen
	deviceID := int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	addr := binary.LittleEndian.Uint64(data[off : off+8])
	off += 8
	bufSize := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	btype := BufferType(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	gap := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	frag := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	channels := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	format := PCMFormat(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	rate := binary.LittleEndian.Uint32(data[off : off+4])
	return BufDescriptor{
		Name:      string(name),
		DeviceID:  deviceID,
		Addr:      addr,
		BufSize:   bufSize,
		Type:      btype,
		GapSize:   gap,
		FragSize:  frag,
		Channels:  channels,
		PCMFormat: format,
		PCMRate:   rate,
	}, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// Frags is the FRAG_READY/XRUN notification payload.
type Frags struct {
	BufID uint32
	Count uint32
}

const fragsSize = 8

func EncodeFrags(f Frags) []byte {
	buf := make([]byte, fragsSize)
	binary.LittleEndian.PutUint32(buf[0:4], f.BufID)
	binary.LittleEndian.PutUint32(buf[4:8], f.Count)
	return buf
}

func DecodeFrags(data []byte) (Frags, error) {
	if len(data) != fragsSize {
		return Frags{}, ErrShortPayload
	}
	return Frags{
		BufID: binary.LittleEndian.Uint32(data[0:4]),
		Count: binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// MaxOffsets is the maximum number of fragment offsets a BUF_OFFSETS
// batch may carry; this is what makes PayloadMax == 260.
const MaxOffsets = 64

// Offsets is the BUF_OFFSETS request payload: a batch of fragment
// start offsets within a scattered buffer.
type Offsets struct {
	Values []uint32
}

func EncodeOffsets(o Offsets) ([]byte, error) {
	if len(o.Values) > MaxOffsets {
		return nil, ErrPayloadSize
	}
	buf := make([]byte, 4+len(o.Values)*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(o.Values)))
	for i, v := range o.Values {
		binary.LittleEndian.PutUint32(buf[4+i*4:8+i*4], v)
	}
	return buf, nil
}

func DecodeOffsets(data []byte) (Offsets, error) {
	if len(data) < 4 {
		return Offsets{}, ErrShortPayload
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	if count > MaxOffsets || len(data) != 4+int(count)*4 {
		return Offsets{}, ErrShortPayload
	}
	values := make([]uint32, count)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[4+i*4 : 8+i*4])
	}
	return Offsets{Values: values}, nil
}

// DeviceFeatures is the GET_DEV_FEATURES response payload.
type DeviceFeatures struct {
	DevID       uint32
	FormatMask  uint32 // bit i set <=> PCMFormat(i) supported
	RateMask    uint32 // see RateBit
	MaxChannels uint32
}

const deviceFeaturesSize = 16

func EncodeDeviceFeatures(f DeviceFeatures) []byte {
	buf := make([]byte, deviceFeaturesSize)
	binary.LittleEndian.PutUint32(buf[0:4], f.DevID)
	binary.LittleEndian.PutUint32(buf[4:8], f.FormatMask)
	binary.LittleEndian.PutUint32(buf[8:12], f.RateMask)
	binary.LittleEndian.PutUint32(buf[12:16], f.MaxChannels)
	return buf
}

func DecodeDeviceFeatures(data []byte) (DeviceFeatures, error) {
	if len(data) != deviceFeaturesSize {
		return DeviceFeatures{}, ErrShortPayload
	}
	return DeviceFeatures{
		DevID:       binary.LittleEndian.Uint32(data[0:4]),
		FormatMask:  binary.LittleEndian.Uint32(data[4:8]),
		RateMask:    binary.LittleEndian.Uint32(data[8:12]),
		MaxChannels: binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

// DeviceParams is the DEV_INIT request payload.
type DeviceParams struct {
	DevID      uint32
	SampleRate uint32
	Channels   uint32
	PCMFormat  PCMFormat
}

const deviceParamsSize = 16

func EncodeDeviceParams(p DeviceParams) []byte {
	buf := make([]byte, deviceParamsSize)
	binary.LittleEndian.PutUint32(buf[0:4], p.DevID)
	binary.LittleEndian.PutUint32(buf[4:8], p.SampleRate)
	binary.LittleEndian.PutUint32(buf[8:12], p.Channels)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(p.PCMFormat))
	return buf
}

func DecodeDeviceParams(data []byte) (DeviceParams, error) {
	if len(data) != deviceParamsSize {
		return DeviceParams{}, ErrShortPayload
	}
	return DeviceParams{
		DevID:      binary.LittleEndian.Uint32(data[0:4]),
		SampleRate: binary.LittleEndian.Uint32(data[4:8]),
		Channels:   binary.LittleEndian.Uint32(data[8:12]),
		PCMFormat:  PCMFormat(binary.LittleEndian.Uint32(data[12:16])),
	}, nil
}
