package rootcheck

import (
	"time"

	"github.com/txn2/rootcheck/pkg/rootprobe"
)

// Report is the result of a full evaluation.
type Report struct {
	ID         string                `json:"id"`
	Timestamp  time.Time             `json:"timestamp"`
	DurationMS int64                 `json:"durationMs"`
	Rooted     bool                  `json:"rooted"`
	Findings   []Finding             `json:"findings"`
	Device     *rootprobe.DeviceInfo `json:"device,omitempty"`
}

// Detected returns only the findings that fired.
func (r *Report) Detected() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Detected {
			out = append(out, f)
		}
	}
	return out
}
