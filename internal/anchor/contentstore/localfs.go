package contentstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const compressedSuffix = ".zst"

// LocalFS stores content as files keyed by id under a root directory. Objects
// are immutable and verified against their id on every read.
type LocalFS struct {
	root     string
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewLocalFS creates root if needed. With compress set, new objects are
// written zstd-compressed; both forms are readable either way.
func NewLocalFS(root string, compress bool) (*LocalFS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create root %s: %w", root, err)
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &LocalFS{root: root, compress: compress, encoder: encoder, decoder: decoder}, nil
}

// Close releases the compression resources.
func (s *LocalFS) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}

// Put stores data and returns its id.
func (s *LocalFS) Put(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := ComputeID(data)
	if err != nil {
		return "", err
	}

	if _, err := s.find(id); err == nil {
		return id, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	path, body := s.plainPath(id), data
	if s.compress {
		path, body = path+compressedSuffix, s.encoder.EncodeAll(data, nil)
	}
	if err := writeFileAtomic(path, body); err != nil {
		return "", fmt.Errorf("store %s: %w", id, err)
	}
	return id, nil
}

// Get returns the bytes stored under id.
func (s *LocalFS) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	path, err := s.find(id)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	data := raw
	if filepath.Ext(path) == compressedSuffix {
		data, err = s.decoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %s: %w", ErrIDMismatch, id, err)
		}
	}
	if err := verify(id, data); err != nil {
		return nil, err
	}
	return data, nil
}

// SizeOf returns the uncompressed length of the content stored under id.
func (s *LocalFS) SizeOf(ctx context.Context, id string) (uint64, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return uint64(len(data)), nil
}

func (s *LocalFS) find(id string) (string, error) {
	plain := s.plainPath(id)
	for _, path := range []string{plain, plain + compressedSuffix} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat %s: %w", id, err)
		}
	}
	return "", ErrNotFound
}

func (s *LocalFS) plainPath(id string) string {
	if len(id) < 2 {
		return filepath.Join(s.root, id)
	}
	return filepath.Join(s.root, id[len(id)-2:], id)
}

func writeFileAtomic(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
