package report

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/filltest/codec"
	"github.com/hupe1980/filltest/internal/hash"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	// ErrUnknownCompression is returned for a compression name or tag that
	// is not supported.
	ErrUnknownCompression = errors.New("unknown report compression")

	// ErrUnknownCodec is returned when an envelope names a codec that is not
	// built in.
	ErrUnknownCodec = errors.New("unknown report codec")

	// ErrCorrupt is returned for an envelope that cannot be parsed.
	ErrCorrupt = errors.New("corrupt report envelope")
)

// Compression selects how an encoded report is compressed.
type Compression uint8

const (
	// CompressionNone stores the codec output as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd (better ratio).
	CompressionZstd Compression = 2
)

// ParseCompression maps a name to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Ext is the file name suffix for the compression.
func (c Compression) Ext() string {
	switch c {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// Envelope layout:
//
//	[magic 4][compression 1][codec name len 1][codec name][raw size u32 LE][raw crc32c u32 LE][payload]
var magic = [4]byte{'F', 'T', 'R', '1'}

const maxRawSize = 1 << 30

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxRawSize))
	return dec
}

// Encode serializes r with c and compresses the result.
func Encode(r *Report, c codec.Codec, comp Compression) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	raw, err := c.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report with %s: %w", c.Name(), err)
	}
	if len(raw) > maxRawSize {
		return nil, fmt.Errorf("report too large: %d bytes", len(raw))
	}

	payload, comp, err := compress(raw, comp)
	if err != nil {
		return nil, err
	}

	name := c.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("%w: name too long", ErrUnknownCodec)
	}
	out := make([]byte, 0, len(magic)+2+len(name)+8+len(payload))
	out = append(out, magic[:]...)
	out = append(out, byte(comp), byte(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(raw)))
	out = binary.LittleEndian.AppendUint32(out, uint32(hash.Of(raw)))
	return append(out, payload...), nil
}

// Decode parses an envelope written by Encode.
func Decode(data []byte) (*Report, error) {
	if len(data) < len(magic)+2 || [4]byte(data[:4]) != magic {
		return nil, ErrCorrupt
	}
	comp := Compression(data[4])
	nameLen := int(data[5])
	rest := data[6:]
	if len(rest) < nameLen+8 {
		return nil, ErrCorrupt
	}
	name := string(rest[:nameLen])
	rawSize := binary.LittleEndian.Uint32(rest[nameLen:])
	sum := hash.Sum(binary.LittleEndian.Uint32(rest[nameLen+4:]))
	payload := rest[nameLen+8:]

	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	if rawSize > maxRawSize {
		return nil, fmt.Errorf("%w: raw size %d", ErrCorrupt, rawSize)
	}

	raw, err := decompress(payload, comp, int(rawSize))
	if err != nil {
		return nil, err
	}
	if err := sum.Verify(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var r Report
	if err := c.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report with %s: %w", name, err)
	}
	return &r, nil
}

// compress returns the payload and the compression actually applied. LZ4
// falls back to none for incompressible input.
func compress(raw []byte, comp Compression) ([]byte, Compression, error) {
	switch comp {
	case CompressionNone:
		return raw, comp, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, comp, err
		}
		if n == 0 {
			return raw, CompressionNone, nil
		}
		return buf[:n], comp, nil
	case CompressionZstd:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(raw, nil), comp, nil
	default:
		return nil, comp, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(comp))
	}
}

func decompress(payload []byte, comp Compression, rawSize int) ([]byte, error) {
	switch comp {
	case CompressionNone:
		if len(payload) != rawSize {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorrupt)
		}
		return payload, nil
	case CompressionLZ4:
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorrupt)
		}
		return raw, nil
	case CompressionZstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		raw, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(raw) != rawSize {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorrupt)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(comp))
	}
}
