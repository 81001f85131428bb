package steg

import (
	"fmt"
	"log/slog"

	"github.com/ssargent/pixelsteg/pkg/capacity"
	"github.com/ssargent/pixelsteg/pkg/imageio"
	"github.com/ssargent/pixelsteg/pkg/payload"
)

// EncodeOptions controls EncodeImage
type EncodeOptions struct {
	Container imageio.Container // Output container; empty keeps the source container
	Compress  bool              // zstd-compress the payload before embedding
}

// EncodeResult is the output of EncodeImage
type EncodeResult struct {
	Image        []byte
	Container    imageio.Container
	Plan         *capacity.Plan
	PayloadBytes int // Bytes actually embedded, after compression
}

// Service embeds into and extracts from encoded image files
type Service struct {
	embedder *Embedder
	logger   *slog.Logger
}

// NewService creates a service around embedder.
func NewService(embedder *Embedder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = embedder.logger
	}
	return &Service{embedder: embedder, logger: logger}
}

// EncodeImage hides data in the image file src and returns the new file.
func (s *Service) EncodeImage(src, data []byte, opts EncodeOptions) (*EncodeResult, error) {
	buf, container, err := imageio.DecodeBytes(src)
	if err != nil {
		return nil, err
	}
	if opts.Container != "" {
		container = opts.Container
	}
	if err := imageio.Supports(container, buf.Format); err != nil {
		return nil, err
	}

	s.logger.Info("loaded image",
		"width", buf.Width,
		"height", buf.Height,
		"pixels", buf.PixelCount(),
		"format", buf.Format.String(),
		"channels", buf.Format.Channels(),
		"bytes_per_channel", buf.Format.BytesPerChannel(),
	)

	if opts.Compress {
		compressed := payload.Compress(data)
		s.logger.Debug("compressed payload", "before", len(data), "after", len(compressed))
		data = compressed
	}

	plan, err := s.embedder.Embed(buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d bytes: %w", len(data), err)
	}

	out, err := imageio.EncodeBytes(buf, container)
	if err != nil {
		return nil, err
	}

	return &EncodeResult{
		Image:        out,
		Container:    container,
		Plan:         plan,
		PayloadBytes: len(data),
	}, nil
}

// DecodeImage recovers the payload hidden in the image file src.
func (s *Service) DecodeImage(src []byte, decompress bool) ([]byte, error) {
	buf, _, err := imageio.DecodeBytes(src)
	if err != nil {
		return nil, err
	}

	data, err := s.embedder.Extract(buf)
	if err != nil {
		return nil, err
	}

	if decompress {
		return payload.Decompress(data)
	}
	return data, nil
}

// StatImage reports on the image file src.
func (s *Service) StatImage(src []byte) (*Report, error) {
	buf, container, err := imageio.DecodeBytes(src)
	if err != nil {
		return nil, err
	}

	r := s.embedder.Stat(buf)
	r.Container = string(container)
	return r, nil
}
