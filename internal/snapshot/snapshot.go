// Package snapshot stores chunks as zstd-compressed JSON. A snapshot file holds
// one header line followed by the chunk document, both inside the zstd frame.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

const (
	Format  = "everclimb.chunk"
	Version = 1
)

var (
	ErrDigestMismatch = errors.New("snapshot: regenerated chunk differs")
	ErrFormat         = errors.New("snapshot: unknown format")
)

// Header is the first line of a snapshot file.
type Header struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Seed    uint32 `json:"seed"`
	Level   int    `json:"level"`
	Digest  string `json:"digest"`
}

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	if encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
		panic(fmt.Sprintf("snapshot: zstd encoder: %v", err))
	}
	if decoder, err = zstd.NewReader(nil); err != nil {
		panic(fmt.Sprintf("snapshot: zstd decoder: %v", err))
	}
}

// Encode returns c as a single zstd frame of JSON.
func Encode(c *chunk.Chunk) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode chunk: %w", err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// Decode is the inverse of Encode.
func Decode(data []byte) (*chunk.Chunk, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	var c chunk.Chunk
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode chunk: %w", err)
	}
	return &c, nil
}

// WriteFile writes c to path, creating parent directories.
func WriteFile(path string, c *chunk.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, err := json.Marshal(Header{
		Format:  Format,
		Version: Version,
		Seed:    c.Seed(),
		Level:   c.Level(),
		Digest:  c.DigestString(),
	})
	if err != nil {
		enc.Close()
		return fmt.Errorf("encode header: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(c); err != nil {
		return fmt.Errorf("encode chunk: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadFile reads a chunk written by WriteFile.
func ReadFile(path string) (Header, *chunk.Chunk, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, nil, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, nil, fmt.Errorf("parse header: %w", err)
	}
	if h.Format != Format || h.Version != Version {
		return h, nil, fmt.Errorf("%w: %s v%d", ErrFormat, h.Format, h.Version)
	}
	var c chunk.Chunk
	if err := json.NewDecoder(br).Decode(&c); err != nil {
		return h, nil, fmt.Errorf("decode chunk: %w", err)
	}
	if c.DigestString() != h.Digest {
		return h, nil, fmt.Errorf("%w: header %s, body %s", ErrDigestMismatch, h.Digest, c.DigestString())
	}
	return h, &c, nil
}

// Verify regenerates c from its recorded inputs and checks the cells match.
func Verify(gen *chunk.Generator, c *chunk.Chunk) error {
	e := c.EntranceQ()
	again := gen.Generate(chunk.Request{
		HexSize:  c.HexSize(),
		Seed:     c.Seed(),
		Level:    c.Level(),
		Viewport: c.Viewport(),
		Entrance: &e,
	})
	if again.Digest() != c.Digest() {
		return fmt.Errorf("%w: seed %d level %d: %s != %s",
			ErrDigestMismatch, c.Seed(), c.Level(), again.DigestString(), c.DigestString())
	}
	return nil
}
