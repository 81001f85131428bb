package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pixelsteg/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// EncodeResponse describes a stored stego image
type EncodeResponse struct {
	ID           string `json:"id"`
	Container    string `json:"container"`
	PayloadBytes int    `json:"payload_bytes"`
	BitsPerPixel int    `json:"bits_per_pixel"`
	DataMask     string `json:"data_mask"`
	StartPixel   uint64 `json:"start_pixel"`
	PixelsUsed   uint64 `json:"pixels_used"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port           int
	Bind           string
	APIKey         string
	MaxUploadBytes int64
	OutputFormat   string // Default container for encode responses; empty keeps the upload's
	Compress       bool   // Default for the compress query parameter
}

// ArtifactStore keeps encoded images between requests
type ArtifactStore interface {
	Create(contentType string, data []byte) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) (*storage.Artifact, error)
	Delete(id ksuid.KSUID) error
}
