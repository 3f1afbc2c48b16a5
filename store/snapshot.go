package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gkoduol/tastematch/blobstore"
	"github.com/gkoduol/tastematch/codec"
	"github.com/gkoduol/tastematch/model"
)

// snapshotMagic identifies a preference-vector snapshot blob.
// Bump the version suffix on any format change.
var snapshotMagic = []byte("TMVEC1\n")

// snapshotHeader is the self-describing part of a snapshot. It is always
// stdlib-JSON encoded so a reader can parse it before knowing the codec.
type snapshotHeader struct {
	Codec       string    `json:"codec"`
	Compression string    `json:"compression"`
	GroupID     string    `json:"group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SnapshotOption configures snapshot writing.
type SnapshotOption func(*snapshotOptions)

type snapshotOptions struct {
	codec      codec.Codec
	compressor Compressor
}

// WithSnapshotCodec sets the body codec. Nil falls back to codec.Default.
func WithSnapshotCodec(c codec.Codec) SnapshotOption {
	return func(o *snapshotOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithSnapshotCompression sets the body compressor. Nil falls back to
// DefaultCompressor.
func WithSnapshotCompression(c Compressor) SnapshotOption {
	return func(o *snapshotOptions) {
		if c == nil {
			c = DefaultCompressor
		}
		o.compressor = c
	}
}

// SnapshotName is the blob name for a group's vector snapshot.
func SnapshotName(groupID string) string {
	return "groups/" + groupID + "/vectors"
}

// SaveVectors writes every stored preference vector of the group to the
// blob store as a single self-describing snapshot.
func SaveVectors(ctx context.Context, bs blobstore.BlobStore, vs VectorStore, groupID string, opts ...SnapshotOption) error {
	o := snapshotOptions{codec: codec.Default, compressor: DefaultCompressor}
	for _, opt := range opts {
		opt(&o)
	}

	vectors, err := vs.ListUserVectors(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list vectors: %w", err)
	}

	body, err := o.codec.Marshal(vectors)
	if err != nil {
		return fmt.Errorf("encode vectors: %w", err)
	}
	compressed, err := o.compressor.Compress(body)
	if err != nil {
		return fmt.Errorf("compress vectors: %w", err)
	}

	header, err := json.Marshal(snapshotHeader{
		Codec:       o.codec.Name(),
		Compression: o.compressor.Name(),
		GroupID:     groupID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Write(snapshotMagic)
	buf.Write(header)
	buf.WriteByte('\n')
	buf.Write(compressed)

	return bs.Put(ctx, SnapshotName(groupID), buf.Bytes())
}

// LoadVectors reads a group snapshot and upserts every vector it contains
// into the vector store. Returns blobstore.ErrNotFound if no snapshot
// exists for the group.
func LoadVectors(ctx context.Context, bs blobstore.BlobStore, vs VectorStore, groupID string) error {
	raw, err := bs.Get(ctx, SnapshotName(groupID))
	if err != nil {
		return err
	}

	if !bytes.HasPrefix(raw, snapshotMagic) {
		return fmt.Errorf("snapshot %s: bad magic", SnapshotName(groupID))
	}
	raw = raw[len(snapshotMagic):]

	nl := bytes.IndexByte(raw, '\n')
	if nl < 0 {
		return fmt.Errorf("snapshot %s: truncated header", SnapshotName(groupID))
	}
	var header snapshotHeader
	if err := json.Unmarshal(raw[:nl], &header); err != nil {
		return fmt.Errorf("snapshot %s: decode header: %w", SnapshotName(groupID), err)
	}

	c, ok := codec.ByName(header.Codec)
	if !ok {
		return fmt.Errorf("snapshot %s: unknown codec %q", SnapshotName(groupID), header.Codec)
	}
	comp, ok := CompressorByName(header.Compression)
	if !ok {
		return fmt.Errorf("snapshot %s: unknown compression %q", SnapshotName(groupID), header.Compression)
	}

	body, err := comp.Decompress(raw[nl+1:])
	if err != nil {
		return fmt.Errorf("snapshot %s: decompress: %w", SnapshotName(groupID), err)
	}

	var vectors map[string]model.Vector
	if err := c.Unmarshal(body, &vectors); err != nil {
		return fmt.Errorf("snapshot %s: decode vectors: %w", SnapshotName(groupID), err)
	}

	for userID, vec := range vectors {
		if err := vs.UpsertUserVector(ctx, groupID, userID, vec); err != nil {
			return err
		}
	}
	return nil
}
