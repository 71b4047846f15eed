package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/yellow-detect/internal/detection"
	"github.com/ironsheep/yellow-detect/internal/guidance"
	"github.com/ironsheep/yellow-detect/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "yellow_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Printf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each detection handler:
//  1. Starts from the server's default band and tolerances
//  2. Overlays whatever the arguments set
//  3. Loads and prepares the frame
//  4. Runs the pure Go detector
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Detection
	case "yellow_detect":
		return s.handleYellowDetect(args)
	case "yellow_mask":
		return s.handleYellowMask(args)
	case "yellow_sample_hsv":
		return s.handleYellowSampleHSV(args)

	// Tracking
	case "yellow_guidance":
		return s.handleYellowGuidance(args)
	case "yellow_annotate":
		return s.handleYellowAnnotate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals args over dst. Fields absent from args keep the
// values dst already holds, which is how server defaults are applied.
func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Detection Handlers ===

// frameArgs are shared by every tool that runs a detection. Band fields sit
// at the top level of the arguments: {"path": "...", "lower_hue": 15}.
type frameArgs struct {
	Path string `json:"path"`
	detection.Config
	Prepare imaging.PrepareOptions `json:"prepare"`
}

func (s *Server) newFrameArgs() frameArgs {
	return frameArgs{Config: s.detect}
}

// analyze loads, prepares and runs detection on the frame named by a. It
// returns the prepared image so overlays line up with the reported box.
func (s *Server) analyze(a frameArgs) (*detection.Analysis, image.Image, error) {
	if a.Path == "" {
		return nil, nil, errors.New("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	prepared, err := imaging.Prepare(img, a.Prepare)
	if err != nil {
		return nil, nil, err
	}
	d, err := detection.New(a.Config, detection.WithLogger(s.logger))
	if err != nil {
		return nil, nil, err
	}
	frame, err := detection.FrameFromImage(prepared)
	if err != nil {
		return nil, nil, err
	}
	analysis, err := d.Analyze(frame)
	if err != nil {
		return nil, nil, err
	}
	return analysis, prepared, nil
}

// detectResult is the yellow_detect payload: the analysis plus the five-slot
// wire encoding consumed by control code.
type detectResult struct {
	*detection.Analysis
	Wire [detection.WireLen]float32 `json:"wire"`
}

func (s *Server) handleYellowDetect(args json.RawMessage) (interface{}, error) {
	a := s.newFrameArgs()
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	analysis, _, err := s.analyze(a)
	if err != nil {
		return nil, err
	}
	return detectResult{Analysis: analysis, Wire: analysis.Result.Wire()}, nil
}

func (s *Server) handleYellowMask(args json.RawMessage) (interface{}, error) {
	a := s.newFrameArgs()
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	analysis, _, err := s.analyze(a)
	if err != nil {
		return nil, err
	}
	return imaging.RenderMask(analysis.Mask)
}

type yellowSampleHSVArgs struct {
	Path string `json:"path"`
	detection.Config
	X      *int                   `json:"x,omitempty"`
	Y      *int                   `json:"y,omitempty"`
	Points []imaging.LabeledPoint `json:"points,omitempty"`
}

func (s *Server) handleYellowSampleHSV(args json.RawMessage) (interface{}, error) {
	a := yellowSampleHSVArgs{Config: s.detect}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	if len(a.Points) > 0 {
		samples, err := imaging.SampleHSVMulti(img, a.Points, a.Config)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"samples": samples}, nil
	}
	if a.X == nil || a.Y == nil {
		return nil, errors.New("either x and y or points are required")
	}
	return imaging.SampleHSV(img, *a.X, *a.Y, a.Config)
}

// === Tracking Handlers ===

type trackingArgs struct {
	frameArgs
	Guidance guidance.Config `json:"guidance"`
}

type guidanceResult struct {
	guidance.Command
	Line string `json:"line"`
}

func (s *Server) handleYellowGuidance(args json.RawMessage) (interface{}, error) {
	a := trackingArgs{frameArgs: s.newFrameArgs(), Guidance: s.guidance}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	analysis, _, err := s.analyze(a.frameArgs)
	if err != nil {
		return nil, err
	}
	cmd, err := guidance.Compute(analysis.Result, analysis.Width, analysis.Height, a.Guidance)
	if err != nil {
		return nil, err
	}
	return guidanceResult{Command: cmd, Line: cmd.Line()}, nil
}

type yellowAnnotateArgs struct {
	trackingArgs
	BoxColor  string `json:"box_color"`
	ShowLabel bool   `json:"show_label"`
}

func (s *Server) handleYellowAnnotate(args json.RawMessage) (interface{}, error) {
	a := yellowAnnotateArgs{trackingArgs: trackingArgs{frameArgs: s.newFrameArgs(), Guidance: s.guidance}}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	analysis, prepared, err := s.analyze(a.frameArgs)
	if err != nil {
		return nil, err
	}
	return imaging.Annotate(prepared, analysis.Result, imaging.Overlay{
		Guidance:  a.Guidance,
		BoxColor:  a.BoxColor,
		ShowLabel: a.ShowLabel,
	})
}
