package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/txn2/rootcheck/pkg/rootapi/types"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// VerdictHandler exposes the root checker
type VerdictHandler struct {
	checker rootcheck.Checker
}

// NewVerdictHandler creates a new verdict handler
func NewVerdictHandler(checker rootcheck.Checker) *VerdictHandler {
	return &VerdictHandler{checker: checker}
}

// Verdict returns the short-circuited verdict
func (h *VerdictHandler) Verdict(c *gin.Context) {
	rooted := h.checker.IsRooted(c.Request.Context())

	c.JSON(http.StatusOK, types.Response{
		Success: true,
		Data: types.VerdictResponse{
			Rooted:    rooted,
			Timestamp: time.Now(),
		},
		Meta: &types.MetaInfo{Timestamp: time.Now()},
	})
}

// Report runs every detector. With ?detected=true only findings that fired
// are returned.
func (h *VerdictHandler) Report(c *gin.Context) {
	report := h.checker.Evaluate(c.Request.Context())
	if c.Query("detected") == "true" {
		report.Findings = append([]rootcheck.Finding{}, report.Detected()...)
	}

	c.JSON(http.StatusOK, types.Response{
		Success: true,
		Data:    types.ReportResponse{Report: report},
		Meta: &types.MetaInfo{
			Count:     len(report.Findings),
			Timestamp: time.Now(),
		},
	})
}

// Detectors lists detector names in run order
func (h *VerdictHandler) Detectors(c *gin.Context) {
	names := h.checker.Detectors()

	c.JSON(http.StatusOK, types.Response{
		Success: true,
		Data:    types.DetectorsResponse{Detectors: names},
		Meta: &types.MetaInfo{
			Count:     len(names),
			Timestamp: time.Now(),
		},
	})
}
