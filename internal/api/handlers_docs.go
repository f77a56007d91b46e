package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"manualqa/internal/docstore"
	"manualqa/internal/parser"
	"manualqa/internal/pipeline"
	"manualqa/internal/service"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form", err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required", err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), "", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", err.Error(), http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), "", http.StatusRequestEntityTooLarge)
		return
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, "unsupported file type", err.Error(), http.StatusBadRequest)
		return
	}
	pages, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "failed to parse document", err.Error(), http.StatusUnprocessableEntity)
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "index"
	}

	switch mode {
	case "summary":
		// Summarize first: a failed extraction must not replace the
		// previously loaded document with a partial one.
		aggregate, err := s.ingestor.Summarize(r.Context(), pages)
		if err != nil {
			s.writeIngestError(w, err)
			return
		}
		doc, err := s.ingestor.Load(pages, filename)
		if err != nil {
			s.writeIngestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"document_id": doc.ID,
			"file_name":   doc.FileName,
			"page_count":  doc.PageCount,
			"summary":     aggregate,
		})

	case "index":
		doc, err := s.ingestor.Load(pages, filename)
		if err != nil {
			s.writeIngestError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"document_id":  doc.ID,
			"file_name":    doc.FileName,
			"page_count":   doc.PageCount,
			"total_chunks": doc.TotalChunks,
		})

	default:
		jsonError(w, fmt.Sprintf("unknown mode: %s", mode), "expected summary or index", http.StatusBadRequest)
	}
}

func (s *Server) handleCurrentDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Current()
	if err != nil {
		jsonError(w, "no document loaded", "", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id":  doc.ID,
		"file_name":    doc.FileName,
		"page_count":   doc.PageCount,
		"total_chunks": doc.TotalChunks,
		"loaded_at":    doc.LoadedAt,
	})
}

func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	var chunkErr *pipeline.ChunkError
	switch {
	case errors.As(err, &chunkErr):
		jsonError(w, "document extraction failed", chunkErr.Error(), http.StatusBadGateway)
	case errors.Is(err, service.ErrEmptyDocument):
		jsonError(w, "document contains no extractable text", "", http.StatusUnprocessableEntity)
	case errors.Is(err, docstore.ErrNoDocument):
		jsonError(w, "no document loaded", "", http.StatusNotFound)
	default:
		jsonError(w, "ingestion failed", err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg, details string, code int) {
	writeJSON(w, code, map[string]string{"error": msg, "details": details})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
