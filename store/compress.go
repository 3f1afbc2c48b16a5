package store

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses snapshot payloads. Implementations must be safe
// for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// CompressorByName returns a built-in compressor by its stable name.
// Snapshot headers store the name so readers can pick the right one.
func CompressorByName(name string) (Compressor, bool) {
	switch name {
	case "none":
		return NoCompression{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// DefaultCompressor is used when none is configured.
var DefaultCompressor Compressor = Zstd{}

// NoCompression passes payloads through unchanged.
type NoCompression struct{}

// Compress returns data unchanged.
func (NoCompression) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (NoCompression) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name returns "none".
func (NoCompression) Name() string { return "none" }

// Zstd compresses with klauspost zstd at the default level.
type Zstd struct{}

// Compress zstd-encodes the payload.
func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress zstd-decodes the payload.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// Name returns "zstd".
func (Zstd) Name() string { return "zstd" }

// LZ4 compresses with the lz4 frame format.
type LZ4 struct{}

// Compress lz4-encodes the payload.
func (LZ4) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress lz4-decodes the payload.
func (LZ4) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}

// Name returns "lz4".
func (LZ4) Name() string { return "lz4" }
