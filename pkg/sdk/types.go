package sdk

import "time"

// UploadResult describes the pipeline built from an uploaded PDF.
type UploadResult struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Pages     int    `json:"pages"`
	Chunks    int    `json:"chunks"`
}

// SessionInfo reports whether a document is loaded and which one.
type SessionInfo struct {
	Ready     bool      `json:"ready"`
	SessionID string    `json:"session_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	Chunks    int       `json:"chunks,omitempty"`
	BuiltAt   time.Time `json:"built_at,omitempty"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
