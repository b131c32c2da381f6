package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/material"
)

// fileMagic and fileVersion identify the chunk file format (§6). The
// version is written alongside the magic so a newer generator can detect
// and regenerate a chunk saved by an older one, per the §6 "self-describing
// to its own version" requirement.
const (
	fileMagic   uint32 = 0x53414e44 // "SAND"
	fileVersion uint16 = 1
)

// ErrUnsupportedVersion is returned by decodeChunkFile when a file claims a
// version newer than this build understands.
var ErrUnsupportedVersion = errors.New("sandfall: chunk file version is newer than this build supports")

// Provider persists chunks as one file per chunk under
// <root>/<cx>/<cy>.chunk (§6), compressing the material payload with zstd
// (grounded on oriumgames-pile's Provider, which wraps the same library
// around its own single-file format). Unlike oriumgames-pile's Provider,
// which buffers a whole world in memory, this Provider is stateless between
// calls: ChunkManager owns the in-memory chunk set, Provider only does I/O.
type Provider struct {
	root string
}

// NewProvider returns a Provider rooted at dir. The directory is created
// lazily, on first Save, matching §6 ("Directory is created lazily").
func NewProvider(dir string) *Provider {
	if dir == "" {
		dir = "world_data"
	}
	return &Provider{root: dir}
}

func (p *Provider) path(coord ChunkCoord) string {
	return filepath.Join(p.root, strconv.Itoa(int(coord[0])), strconv.Itoa(int(coord[1]))+".chunk")
}

// Save serializes c to its chunk file. I/O errors are returned to the
// caller (ChunkManager), which logs them and leaves the coordinate in the
// dirty set for a retry on the next save sweep (§4.4, §7 StorageFailure).
func (p *Provider) Save(coord ChunkCoord, c *chunk.Chunk) error {
	dir := filepath.Dir(p.path(coord))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sandfall: create chunk directory %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "chunk-*.tmp")
	if err != nil {
		return fmt.Errorf("sandfall: create temp chunk file: %w", err)
	}
	tmpName := f.Name()
	if err := encodeChunkFile(f, c); err != nil {
		f.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sandfall: encode chunk %v: %w", coord, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sandfall: close chunk file %v: %w", coord, err)
	}
	if err := os.Rename(tmpName, p.path(coord)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sandfall: install chunk file %v: %w", coord, err)
	}
	return nil
}

// Load deserializes the chunk at coord, if present. A missing file is
// reported via os.IsNotExist on the returned error so callers can fall
// through to generation (§4.4, §7 DeserializeFailure/StorageFailure).
func (p *Provider) Load(coord ChunkCoord, worldX, worldY int, seed uint64) (*chunk.Chunk, error) {
	f, err := os.Open(p.path(coord))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := decodeChunkFile(f, worldX, worldY, seed)
	if err != nil {
		return nil, fmt.Errorf("sandfall: decode chunk %v: %w", coord, err)
	}
	return c, nil
}

func encodeChunkFile(w io.Writer, c *chunk.Chunk) error {
	materials := c.Materials()
	if err := binary.Write(w, binary.LittleEndian, fileMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, fileVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(c.W)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(c.H)); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	raw := make([]byte, len(materials))
	for i, m := range materials {
		raw[i] = byte(m)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("write compressed payload: %w", err)
	}
	return enc.Close()
}

func decodeChunkFile(r io.Reader, worldX, worldY int, seed uint64) (*chunk.Chunk, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("bad magic 0x%08x", magic)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version > fileVersion {
		return nil, ErrUnsupportedVersion
	}
	var w, h uint32
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		return nil, fmt.Errorf("read width: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	raw := make([]byte, int(w)*int(h))
	if _, err := io.ReadFull(dec, raw); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	c := chunk.New(int(w), int(h), worldX, worldY, seed)
	materials := make([]material.Material, len(raw))
	for i, b := range raw {
		m := material.Material(b)
		if int(m) >= material.Count() {
			m = material.Empty
		}
		materials[i] = m
	}
	c.SetMaterials(materials)
	c.ModifiedSinceSave = false
	c.Dirty = false
	return c, nil
}
