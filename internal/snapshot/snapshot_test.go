package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

func TestEncodeDecode(t *testing.T) {
	c := chunk.Generate(24, 0xDEADBEEF, 7)
	data, err := Encode(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Digest() != c.Digest() || back.Meta() != c.Meta() {
		t.Fatalf("chunk changed across encode/decode")
	}
}

func TestSharedCodecs(t *testing.T) {
	if encoder == nil || decoder == nil {
		t.Fatalf("shared zstd codecs not initialized")
	}
	data, err := Encode(chunk.Generate(24, 1, 1))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	defer r.Close()
	var c chunk.Chunk
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		t.Fatalf("a streaming reader should read an encoded chunk: %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not zstd")); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "c.zst")
	c := chunk.Generate(24, 99, 12)
	if err := WriteFile(path, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if h.Seed != 99 || h.Level != 12 || h.Digest != c.DigestString() {
		t.Fatalf("header = %+v", h)
	}
	if back.Digest() != c.Digest() {
		t.Fatalf("digest changed across file round trip")
	}
}

func TestReadFileRejectsForeignFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.zst")
	enc, _ := zstd.NewWriter(nil)
	data := enc.EncodeAll([]byte(`{"format":"other","version":1}`+"\n{}"), nil)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := ReadFile(path); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	gen := chunk.NewGenerator()
	c := gen.Generate(chunk.Request{HexSize: 24, Seed: 31, Level: 9})
	if err := Verify(gen, c); err != nil {
		t.Fatalf("verify: %v", err)
	}

	g := c.Grid()
	if g.TerrainAt(0, 0) == chunk.Stone {
		g.SetTerrain(0, 0, chunk.Dirt)
	} else {
		g.SetTerrain(0, 0, chunk.Stone)
	}
	tampered := chunk.New(g, c.Meta())
	if err := Verify(gen, tampered); !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("expected ErrDigestMismatch, got %v", err)
	}
}
