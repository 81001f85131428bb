package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pixelsteg/pkg/imageio"
	"github.com/ssargent/pixelsteg/pkg/payload"
	"github.com/ssargent/pixelsteg/pkg/steg"
	"github.com/ssargent/pixelsteg/pkg/storage"
)

const defaultMaxUploadBytes int64 = 32 << 20

// Server holds the API server state
type Server struct {
	service   *steg.Service
	artifacts ArtifactStore
	config    ServerConfig
	metrics   *Metrics
	logger    *slog.Logger
}

// NewServer creates a new API server. artifacts may be nil, which disables
// storing encoded images.
func NewServer(service *steg.Service, artifacts ArtifactStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = defaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		service:   service,
		artifacts: artifacts,
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleEncode godoc
//
//	@Summary		Embed a payload
//	@Description	Hide a payload in an image. Returns the new image, or its artifact ID when store=true.
//	@Tags			steg
//	@Accept			multipart/form-data
//	@Produce		image/png,image/bmp,json
//	@Param			image		formData	file	true	"Cover image (PNG or BMP)"
//	@Param			payload		formData	file	true	"Payload to hide"
//	@Param			format		query		string	false	"Output container (png or bmp)"
//	@Param			compress	query		bool	false	"zstd-compress the payload"
//	@Param			store		query		bool	false	"Store the image and return its ID"
//	@Success		200	{object}	APIResponse{data=EncodeResponse}
//	@Failure		400	{object}	APIResponse
//	@Failure		413	{object}	APIResponse
//	@Failure		415	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/encode [post]
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	fail := func(message string, status int) {
		s.metrics.RecordStegOperation("encode", false, time.Since(start))
		sendError(w, message, status)
	}

	opts, store, err := s.encodeOptions(r)
	if err != nil {
		fail(err.Error(), http.StatusBadRequest)
		return
	}
	if store && s.artifacts == nil {
		fail("Artifact storage is not enabled", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		fail(fmt.Sprintf("Failed to parse multipart form: %v", err), uploadStatus(err))
		return
	}

	src, err := formBytes(r, "image")
	if err != nil {
		fail(err.Error(), http.StatusBadRequest)
		return
	}
	data, err := formBytes(r, "payload")
	if err != nil {
		fail(err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.service.EncodeImage(src, data, opts)
	if err != nil {
		s.logError("encode failed", err)
		fail(err.Error(), statusFor(err))
		return
	}
	s.metrics.RecordStegOperation("encode", true, time.Since(start))
	s.metrics.ObservePayloadSize("encode", res.PayloadBytes)

	w.Header().Set("X-Pixelsteg-Bits-Per-Pixel", strconv.Itoa(res.Plan.BitsPerPixel))
	w.Header().Set("X-Pixelsteg-Payload-Bytes", strconv.Itoa(res.PayloadBytes))

	if !store {
		sendBinary(w, res.Container.ContentType(), res.Image)
		return
	}

	id, err := s.artifacts.Create(res.Container.ContentType(), res.Image)
	s.metrics.RecordArtifactOperation("create", err == nil)
	if err != nil {
		s.logError("storing artifact failed", err)
		sendError(w, fmt.Sprintf("Failed to store image: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, EncodeResponse{
		ID:           id.String(),
		Container:    string(res.Container),
		PayloadBytes: res.PayloadBytes,
		BitsPerPixel: res.Plan.BitsPerPixel,
		DataMask:     res.Plan.DataMask.String(),
		StartPixel:   res.Plan.StartPixel,
		PixelsUsed:   res.Plan.PixelsNeeded,
	})
}

// handleDecode godoc
//
//	@Summary		Extract a payload
//	@Description	Recover the payload hidden in an image sent as the request body
//	@Tags			steg
//	@Accept			image/png,image/bmp
//	@Produce		octet-stream
//	@Param			body		body		[]byte	true	"Stego image"
//	@Param			compress	query		bool	false	"zstd-decompress the extracted payload"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	APIResponse
//	@Failure		415	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/decode [post]
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	fail := func(message string, status int) {
		s.metrics.RecordStegOperation("decode", false, time.Since(start))
		sendError(w, message, status)
	}

	decompress, err := boolQuery(r, "compress", s.config.Compress)
	if err != nil {
		fail(err.Error(), http.StatusBadRequest)
		return
	}

	src, err := s.readBody(w, r)
	if err != nil {
		fail(fmt.Sprintf("Failed to read request body: %v", err), uploadStatus(err))
		return
	}

	data, err := s.service.DecodeImage(src, decompress)
	if err != nil {
		s.logError("decode failed", err)
		fail(err.Error(), statusFor(err))
		return
	}
	s.metrics.RecordStegOperation("decode", true, time.Since(start))
	s.metrics.ObservePayloadSize("decode", len(data))

	sendBinary(w, "application/octet-stream", data)
}

// handleStat godoc
//
//	@Summary		Inspect an image
//	@Description	Report the image geometry, capacity and any embedded header
//	@Tags			steg
//	@Accept			image/png,image/bmp
//	@Produce		json
//	@Param			body	body		[]byte	true	"Image"
//	@Success		200	{object}	APIResponse{data=steg.Report}
//	@Failure		400	{object}	APIResponse
//	@Failure		415	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/stat [post]
func (s *Server) handleStat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	src, err := s.readBody(w, r)
	if err != nil {
		s.metrics.RecordStegOperation("stat", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to read request body: %v", err), uploadStatus(err))
		return
	}

	report, err := s.service.StatImage(src)
	if err != nil {
		s.metrics.RecordStegOperation("stat", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}
	s.metrics.RecordStegOperation("stat", true, time.Since(start))

	sendSuccess(w, report)
}

// handleGetArtifact godoc
//
//	@Summary		Download a stored image
//	@Tags			artifacts
//	@Produce		image/png,image/bmp
//	@Param			id	path		string	true	"Artifact ID"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/artifacts/{id} [get]
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.artifactID(w, r)
	if !ok {
		return
	}

	a, err := s.artifacts.Read(id)
	s.metrics.RecordArtifactOperation("read", err == nil)
	if err != nil {
		sendError(w, err.Error(), artifactStatus(err))
		return
	}

	sendBinary(w, a.ContentType, a.Data)
}

// handleDeleteArtifact godoc
//
//	@Summary		Delete a stored image
//	@Tags			artifacts
//	@Produce		json
//	@Param			id	path		string	true	"Artifact ID"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/artifacts/{id} [delete]
func (s *Server) handleDeleteArtifact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.artifactID(w, r)
	if !ok {
		return
	}

	err := s.artifacts.Delete(id)
	s.metrics.RecordArtifactOperation("delete", err == nil)
	if err != nil {
		sendError(w, err.Error(), artifactStatus(err))
		return
	}

	sendSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
}

func (s *Server) artifactID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	if s.artifacts == nil {
		sendError(w, "Artifact storage is not enabled", http.StatusServiceUnavailable)
		return ksuid.Nil, false
	}
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid artifact ID", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) encodeOptions(r *http.Request) (steg.EncodeOptions, bool, error) {
	var opts steg.EncodeOptions

	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.config.OutputFormat
	}
	if format != "" {
		c, err := imageio.ParseContainer(format)
		if err != nil {
			return opts, false, err
		}
		opts.Container = c
	}

	compress, err := boolQuery(r, "compress", s.config.Compress)
	if err != nil {
		return opts, false, err
	}
	opts.Compress = compress

	store, err := boolQuery(r, "store", false)
	if err != nil {
		return opts, false, err
	}
	return opts, store, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty request body")
	}
	return body, nil
}

func (s *Server) logError(msg string, err error) {
	if steg.IsFatal(err) {
		s.logger.Error(msg, "error", err)
		return
	}
	s.logger.Debug(msg, "error", err)
}

func formBytes(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err == nil {
		defer f.Close()
		return io.ReadAll(f)
	}
	// Accept plain form values for text payloads
	if v, ok := r.MultipartForm.Value[field]; ok && len(v) > 0 {
		return []byte(v[0]), nil
	}
	return nil, fmt.Errorf("missing form field %q", field)
}

func boolQuery(r *http.Request, name string, def bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s parameter %q", name, v)
	}
	return b, nil
}

// statusFor maps embed and extract errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case steg.IsFatal(err):
		return http.StatusInternalServerError
	case errors.Is(err, imageio.ErrContainerUnsupported), errors.Is(err, steg.ErrFormatUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, steg.ErrCapacityExceeded),
		errors.Is(err, steg.ErrMagicMismatch),
		errors.Is(err, steg.ErrChecksumMismatch),
		errors.Is(err, steg.ErrDecodeMalformed),
		errors.Is(err, payload.ErrCorrupt):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func artifactStatus(err error) int {
	if errors.Is(err, storage.ErrArtifactNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
