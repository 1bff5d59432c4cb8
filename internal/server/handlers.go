package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/ingest"
	"github.com/yksassistant/hakem/internal/llm"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/pipeline"
)

type healthResponse struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Provider  string   `json:"provider,omitempty"`
	Languages []string `json:"languages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   s.version,
		Provider:  s.providerName(),
		Languages: i18n.Default().Languages(),
	})
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	var raw model.RawQuestion
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("decode record: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, s.pipeline.Assess(r.Context(), raw))
}

type batchItem struct {
	Index      int               `json:"index"`
	ID         string            `json:"id"`
	Assessment *model.Assessment `json:"assessment,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type batchResponse struct {
	Count   int         `json:"count"`
	Failed  int         `json:"failed"`
	Results []batchItem `json:"results"`
}

// handleAssessBatch accepts a JSON array by default; JSONL, YAML and HTML
// bodies are selected by Content-Type
func (s *Server) handleAssessBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}

	raws, err := ingest.Decode(data, bodyFormat(r.Header.Get("Content-Type")))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("decode records: %v", err))
		return
	}
	if len(raws) == 0 {
		respondError(w, http.StatusBadRequest, "no records")
		return
	}
	if len(raws) > s.config.MaxBatchSize {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch of %d records exceeds limit %d", len(raws), s.config.MaxBatchSize))
		return
	}

	resp := batchResponse{Count: len(raws), Results: make([]batchItem, len(raws))}
	for i, res := range s.pipeline.AssessBatch(r.Context(), raws) {
		item := batchItem{Index: res.Index, ID: res.ID, Assessment: res.Assessment}
		if res.Error != nil {
			item.Error = res.Error.Error()
			resp.Failed++
		}
		resp.Results[i] = item
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	if s.pipeline.Provider() == nil {
		respondError(w, http.StatusServiceUnavailable, pipeline.ErrNoProvider.Error())
		return
	}
	if !s.clients.Allow(clientKey(r)) {
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("parse form: %v", err))
		return
	}

	f, hdr, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("read image: %v", err))
		return
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		respondError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("%s is not an image", mimeType))
		return
	}

	id := r.FormValue("id")
	if id == "" {
		id = strings.TrimSuffix(hdr.Filename, filepath.Ext(hdr.Filename))
	}

	m, err := s.pipeline.Measure(r.Context(), llm.Image{Data: data, MimeType: mimeType}, id)
	if err != nil {
		slog.Warn("measure failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		respondError(w, measureStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func measureStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoProvider):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func bodyFormat(contentType string) ingest.Format {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/x-ndjson", "application/jsonl", "application/x-jsonlines":
		return ingest.FormatJSONL
	case "application/yaml", "application/x-yaml", "text/yaml":
		return ingest.FormatYAML
	case "text/html":
		return ingest.FormatHTML
	default:
		return ingest.FormatJSON
	}
}

// clientKey is the client address without port; RealIP has already applied
// forwarding headers
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
