package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/gray-fusion-mcp/internal/combine"
	"github.com/ironsheep/gray-fusion-mcp/internal/edge"
	"github.com/ironsheep/gray-fusion-mcp/internal/filter"
	"github.com/ironsheep/gray-fusion-mcp/internal/imaging"
	"github.com/ironsheep/gray-fusion-mcp/internal/moments"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
	"github.com/ironsheep/gray-fusion-mcp/internal/statistics"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_filter", "image_combine").
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

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Error(component, err, map[string]interface{}{"tool": params.Name})
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug(component, "tool call", map[string]interface{}{
		"tool":     params.Name,
		"duration": time.Since(start),
	})

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
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads grayscale buffers from the cache
//  4. Calls the engine package
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Region Operations
	case "image_crop":
		return s.handleImageCrop(args)

	// Descriptors
	case "image_statistics":
		return s.handleImageStatistics(args)
	case "image_hu_moments":
		return s.handleImageHuMoments(args)

	// Transforms
	case "image_filter":
		return s.handleImageFilter(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	// Fusion
	case "image_combine":
		return s.handleImageCombine(args)
	case "image_difference":
		return s.handleImageDifference(args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// gray loads path through the cache using the named ingestion mode.
func (s *Server) gray(path, mode string) (*raster.Buffer, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	m, err := imaging.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return s.cache.Gray(path, m)
}

// regionArgs is an optional rectangle; all-zero means "not given".
type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r regionArgs) isZero() bool {
	return r == regionArgs{}
}

func (r regionArgs) region() imaging.Region {
	return imaging.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
}

// imageResult is a processed buffer returned to the client.
type imageResult struct {
	Operation string `json:"operation"`
	*imaging.EncodedImage
}

func encodeResult(op string, b *raster.Buffer) (*imageResult, error) {
	enc, err := imaging.Encode(b)
	if err != nil {
		return nil, err
	}
	return &imageResult{Operation: op, EncodedImage: enc}, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	regionArgs
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	buf, err := s.gray(a.Path, a.Mode)
	if err != nil {
		return nil, err
	}

	r := a.region()
	if a.Region != "" {
		if r, err = imaging.NamedRegion(a.Region, buf.Width(), buf.Height()); err != nil {
			return nil, err
		}
	}
	return imaging.Crop(buf, r, a.Scale)
}

// === Descriptor Handlers ===

type imageStatisticsArgs struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	regionArgs
	Histogram bool `json:"histogram"`
}

func (s *Server) handleImageStatistics(args json.RawMessage) (interface{}, error) {
	var a imageStatisticsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.gray(a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	if !a.isZero() {
		if buf, err = imaging.Extract(buf, a.region()); err != nil {
			return nil, err
		}
	}
	return statistics.Describe(buf, a.Histogram)
}

type imageHuMomentsArgs struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	// Inclusive bounds; all zero selects the whole image.
	regionArgs
}

type huMomentsResult struct {
	XStart    int        `json:"x_start"`
	XEnd      int        `json:"x_end"`
	YStart    int        `json:"y_start"`
	YEnd      int        `json:"y_end"`
	Invariant [7]float64 `json:"invariants"`
}

func (s *Server) handleImageHuMoments(args json.RawMessage) (interface{}, error) {
	var a imageHuMomentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.gray(a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	if a.isZero() {
		a.X2, a.Y2 = buf.Width()-1, buf.Height()-1
	}

	hu, err := moments.Compute(buf, a.X1, a.X2, a.Y1, a.Y2)
	if err != nil {
		return nil, err
	}
	res := &huMomentsResult{XStart: a.X1, XEnd: a.X2, YStart: a.Y1, YEnd: a.Y2}
	copy(res.Invariant[:], hu[1:])
	return res, nil
}

// === Transform Handlers ===

type imageFilterArgs struct {
	Path      string  `json:"path"`
	Mode      string  `json:"mode"`
	Filter    string  `json:"filter"`
	Size      int     `json:"size"`
	Sigma     float64 `json:"sigma"`
	Threshold int     `json:"threshold"`
	Policy    string  `json:"policy"`
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = 3
	}
	if a.Sigma == 0 {
		a.Sigma = 2.0
	}

	typ, err := filter.ParseType(a.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, a.Filter)
	}
	policy, err := filter.ParsePolicy(a.Policy)
	if err != nil {
		return nil, fmt.Errorf("threshold policy %q: %w", a.Policy, err)
	}
	buf, err := s.gray(a.Path, a.Mode)
	if err != nil {
		return nil, err
	}

	out, err := filter.Apply(buf, typ, filter.Params{
		Size:      a.Size,
		Sigma:     a.Sigma,
		Threshold: a.Threshold,
		Policy:    policy,
	})
	if err != nil {
		return nil, fmt.Errorf("%s (result %q): %w", typ, filter.ResultOf(err).String(), err)
	}
	return encodeResult(typ.String(), out)
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	Mode          string `json:"mode"`
	Operator      string `json:"operator"`
	Axis          string `json:"axis"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

type edgeResult struct {
	imageResult
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Operator == "" {
		a.Operator = "canny"
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = s.cfg.Canny.Min
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = s.cfg.Canny.Max
	}
	buf, err := s.gray(a.Path, a.Mode)
	if err != nil {
		return nil, err
	}

	var out *raster.Buffer
	if a.Operator == "canny" {
		out, err = edge.Canny(buf, edge.Thresholds{Min: a.ThresholdLow, Max: a.ThresholdHigh})
	} else {
		op, perr := edge.ParseOperator(a.Operator)
		if perr != nil {
			return nil, perr
		}
		switch a.Axis {
		case "", "both":
			out, err = edge.Strength(buf, op)
		case "horizontal":
			out, err = edge.OperatorConvolution(buf, op, edge.Horizontal)
		case "vertical":
			out, err = edge.OperatorConvolution(buf, op, edge.Vertical)
		default:
			return nil, fmt.Errorf("unknown axis: %s", a.Axis)
		}
	}
	if err != nil {
		return nil, err
	}

	res, err := encodeResult(a.Operator, out)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, v := range out.Pix() {
		if v > 0 {
			n++
		}
	}
	return &edgeResult{imageResult: *res, EdgePixels: n}, nil
}

// === Fusion Handlers ===

type imageCombineArgs struct {
	Paths    []string `json:"paths"`
	Mode     string   `json:"mode"`
	Strategy string   `json:"strategy"`
	Rank     bool     `json:"rank"`
	Modes    int      `json:"modes"`
	Fit      bool     `json:"fit"`
}

type combineResult struct {
	imageResult
	Images  int     `json:"images"`
	Entropy float64 `json:"entropy"`
	Quality float64 `json:"quality"`
}

// loadSet loads every path; with fit set, images are resized to the first.
func (s *Server) loadSet(paths []string, mode string, fit bool) ([]*raster.Buffer, error) {
	bufs := make([]*raster.Buffer, 0, len(paths))
	for _, p := range paths {
		b, err := s.gray(p, mode)
		if err != nil {
			return nil, err
		}
		if fit && len(bufs) > 0 && !raster.SameSize(b, bufs[0]) {
			if b, err = imaging.Resize(b, bufs[0].Width(), bufs[0].Height()); err != nil {
				return nil, err
			}
		}
		bufs = append(bufs, b)
	}
	return bufs, nil
}

// combineError names the combiner result for errors inside its taxonomy.
func combineError(strategy string, err error) error {
	if r, ok := combine.ResultOf(err); ok {
		return fmt.Errorf("%s failed with %s: %w", strategy, r.String(), err)
	}
	return fmt.Errorf("%s: %w", strategy, err)
}

func (s *Server) handleImageCombine(args json.RawMessage) (interface{}, error) {
	var a imageCombineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Strategy == "" {
		a.Strategy = "informative_priority"
	}
	if a.Modes == 0 {
		a.Modes = s.cfg.MorphModes
	}

	typ, err := combine.ParseType(a.Strategy)
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", a.Strategy, err)
	}
	bufs, err := s.loadSet(a.Paths, a.Mode, a.Fit)
	if err != nil {
		return nil, err
	}

	c := combine.New()
	c.Add(bufs...)
	out, err := c.Combine(typ, combine.Options{Rank: a.Rank, Modes: a.Modes})
	if err != nil {
		return nil, combineError(a.Strategy, err)
	}

	res, err := encodeResult(a.Strategy, out)
	if err != nil {
		return nil, err
	}
	summary, err := statistics.Describe(out, false)
	if err != nil {
		return nil, err
	}
	return &combineResult{
		imageResult: *res,
		Images:      c.Len(),
		Entropy:     summary.Entropy,
		Quality:     summary.Quality,
	}, nil
}

type imageDifferenceArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
	Mode  string `json:"mode"`
	Fit   bool   `json:"fit"`
}

type differenceResult struct {
	imageResult
	MeanDifference float64 `json:"mean_difference"`
	MaxDifference  uint8   `json:"max_difference"`
	Identical      bool    `json:"identical"`
}

func (s *Server) handleImageDifference(args json.RawMessage) (interface{}, error) {
	var a imageDifferenceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bufs, err := s.loadSet([]string{a.Path1, a.Path2}, a.Mode, a.Fit)
	if err != nil {
		return nil, err
	}

	c := combine.New()
	c.Add(bufs...)
	out, err := c.Difference(combine.Options{})
	if err != nil {
		return nil, combineError("difference", err)
	}

	mean, err := statistics.Mean(out)
	if err != nil {
		return nil, err
	}
	peak, err := statistics.Max(out)
	if err != nil {
		return nil, err
	}
	res, err := encodeResult("difference", out)
	if err != nil {
		return nil, err
	}
	return &differenceResult{
		imageResult:    *res,
		MeanDifference: mean,
		MaxDifference:  peak,
		Identical:      peak == 0,
	}, nil
}
