package domain

import "time"

// Job links an uploaded file to its processing result so the web layer can
// serve status and download requests after the run finished.
type Job struct {
	ID               string           `json:"id"`
	OriginalFilename string           `json:"original_filename"`
	OutputFile       string           `json:"output_file,omitempty"`
	Result           ProcessingResult `json:"result"`
	CreatedAt        time.Time        `json:"created_at"`
}
