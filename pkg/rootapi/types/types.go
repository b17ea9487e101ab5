package types

import (
	"time"

	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// Response is the standard API response wrapper
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo provides error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo provides response metadata
type MetaInfo struct {
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse provides health status
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// VerdictResponse is the short-circuited root verdict
type VerdictResponse struct {
	Rooted    bool      `json:"rooted"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportResponse wraps a full evaluation
type ReportResponse struct {
	*rootcheck.Report
}

// DetectorsResponse lists the registered detectors in run order
type DetectorsResponse struct {
	Detectors []string `json:"detectors"`
}
