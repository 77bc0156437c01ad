package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/infrastructure/csvio"
	"ShopifySEO/internal/infrastructure/jobs"
)

type statsPayload struct {
	TotalProducts  int     `json:"total_products"`
	ActiveProducts int     `json:"active_products"`
	EditedTitles   int     `json:"edited_titles"`
	ProcessingTime float64 `json:"processing_time"`
}

type uploadResponse struct {
	JobID   string       `json:"job_id"`
	Message string       `json:"message"`
	Stats   statsPayload `json:"stats"`
}

type statusResponse struct {
	Success bool          `json:"success"`
	Stats   *statsPayload `json:"stats,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func newStatsPayload(result domain.ProcessingResult) statsPayload {
	return statsPayload{
		TotalProducts:  result.TotalProducts,
		ActiveProducts: result.ActiveProducts,
		EditedTitles:   result.EditedTitles,
		ProcessingTime: math.Round(result.Duration.Seconds()*100) / 100,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := indexPage.ReadFile("index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version,
	})
}

// handleUpload receives a CSV, runs the full rewrite pipeline synchronously
// and registers the output under a fresh job ID.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Server.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if filename == "" {
		s.writeError(w, http.StatusBadRequest, "no file selected")
		return
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		s.writeError(w, http.StatusBadRequest, "only CSV files are allowed")
		return
	}

	if err := os.MkdirAll(s.cfg.Pipeline.TempDir, 0o755); err != nil {
		s.logger.Error("create temp dir", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	uploadPath := filepath.Join(s.cfg.Pipeline.TempDir, uuid.NewString()+"_"+filename)
	if err := saveUpload(uploadPath, file); err != nil {
		s.logger.Error("save upload", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(uploadPath)

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	outputPath := filepath.Join(s.cfg.Pipeline.TempDir,
		fmt.Sprintf("%s_optimized_%d.csv", base, time.Now().Unix()))

	result := s.runner.Run(r.Context(), csvio.NewSource(uploadPath), csvio.NewSink(outputPath))

	jobID := uuid.NewString()
	job := &domain.Job{
		ID:               jobID,
		OriginalFilename: filename,
		OutputFile:       result.OutputFile,
		Result:           result,
	}
	if err := s.jobs.Create(r.Context(), job); err != nil {
		s.logger.Error("register job", "job_id", jobID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to register job")
		return
	}

	if !result.Success {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"job_id": jobID,
			"error":  result.ErrorMessage,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		JobID:   jobID,
		Message: "File processed successfully",
		Stats:   newStatsPayload(result),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	if !job.Result.Success || job.OutputFile == "" {
		s.writeError(w, http.StatusConflict, "processing did not produce an output file")
		return
	}
	if _, err := os.Stat(job.OutputFile); err != nil {
		s.writeError(w, http.StatusNotFound, "output file expired")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "optimized_"+job.OriginalFilename))
	http.ServeFile(w, r, job.OutputFile)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}

	resp := statusResponse{Success: job.Result.Success}
	if job.Result.Success {
		stats := newStatsPayload(job.Result)
		resp.Stats = &stats
	} else {
		resp.Error = job.Result.ErrorMessage
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	records, err := s.runs.RecentRuns(r.Context(), 20)
	if err != nil {
		s.logger.Error("load run history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load run history")
		return
	}

	type runPayload struct {
		InputFile      string    `json:"input_file"`
		OutputFile     string    `json:"output_file"`
		TotalProducts  int       `json:"total_products"`
		ActiveProducts int       `json:"active_products"`
		EditedTitles   int       `json:"edited_titles"`
		DurationSec    float64   `json:"duration_seconds"`
		Success        bool      `json:"success"`
		ErrorMessage   string    `json:"error_message,omitempty"`
		CreatedAt      time.Time `json:"created_at"`
	}

	payload := make([]runPayload, 0, len(records))
	for _, rec := range records {
		payload = append(payload, runPayload{
			InputFile:      rec.InputFile,
			OutputFile:     rec.OutputFile,
			TotalProducts:  rec.TotalProducts,
			ActiveProducts: rec.ActiveProducts,
			EditedTitles:   rec.EditedTitles,
			DurationSec:    math.Round(rec.Duration.Seconds()*100) / 100,
			Success:        rec.Success,
			ErrorMessage:   rec.ErrorMessage,
			CreatedAt:      rec.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": payload})
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (*domain.Job, bool) {
	id := chi.URLParam(r, "jobID")
	job, err := s.jobs.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "job not found")
		return nil, false
	}
	if err != nil {
		s.logger.Error("load job", "job_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load job")
		return nil, false
	}
	return job, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// sanitizeFilename strips directory components and characters that would be
// unsafe in a locally created file name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	return strings.Trim(clean, "._")
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close upload file: %w", err)
	}
	return nil
}
