package rootmcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// EvaluateInput is the input of evaluate_root_heuristics
type EvaluateInput struct {
	OnlyDetected bool `json:"only_detected,omitempty" jsonschema:"Return only the heuristics that found evidence of root"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "is_rooted",
		Description: "Quick root check of this device. Stops at the first heuristic that finds evidence. Best-effort signal, not a security boundary.",
	}, s.handleIsRooted)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "evaluate_root_heuristics",
		Description: "Run every root heuristic (su/busybox binaries, test-keys, dangerous properties, writable system mounts, root management/cloaking/dangerous apps) and return each result with evidence.",
	}, s.handleEvaluate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_detectors",
		Description: "List the root heuristics in the order they run.",
	}, s.handleListDetectors)
}

func (s *Server) handleIsRooted(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	rooted := s.checker.IsRooted(ctx)

	text := "No indication of root found."
	if rooted {
		text = "Device is likely rooted."
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, map[string]interface{}{"rooted": rooted}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, any, error) {
	report := s.checker.Evaluate(ctx)
	detected := report.Detected()
	if input.OnlyDetected {
		report.Findings = append([]rootcheck.Finding{}, detected...)
	}

	var sb strings.Builder
	if report.Rooted {
		fmt.Fprintf(&sb, "Device is likely rooted (%d heuristics fired)", len(detected))
		for _, f := range detected {
			fmt.Fprintf(&sb, "\n- %s: %s", f.Detector, strings.Join(f.Evidence, ", "))
		}
	} else {
		sb.WriteString("No indication of root found.")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: sb.String()}},
	}, report, nil
}

func (s *Server) handleListDetectors(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	names := s.checker.Detectors()

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(names, "\n")}},
	}, map[string]interface{}{"detectors": names}, nil
}
