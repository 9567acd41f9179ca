package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func modeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"average", "luminance"},
		"description": "How color pixels are reduced to gray: 'average' of r,g,b (default) or CIE 'luminance'",
		"default":     "average",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// regionProperties returns x1..y2 schema entries. Exclusive regions describe
// x2/y2 as one past the last pixel.
func regionProperties(exclusive bool) map[string]interface{} {
	end := "inclusive"
	if exclusive {
		end = "exclusive"
	}
	return map[string]interface{}{
		"x1": intProperty("Left edge X coordinate (0-based)"),
		"y1": intProperty("Top edge Y coordinate (0-based)"),
		"x2": intProperty("Right edge X coordinate (" + end + ")"),
		"y2": intProperty("Bottom edge Y coordinate (" + end + ")"),
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, color model and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a region of the grayscale image and return it as base64-encoded PNG. Give either x1/y1/x2/y2 or a named region. Regions may extend past the edge by up to one image size; missing pixels are mirrored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
					"region": map[string]interface{}{
						"type": "string",
						"enum": []string{
							"top-left", "top-right", "bottom-left", "bottom-right",
							"top-half", "bottom-half", "left-half", "right-half", "center",
						},
						"description": "Named region; overrides x1/y1/x2/y2",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}, regionProperties(true)),
				"required": []string{"path"},
			},
		},

		// Descriptors
		{
			Name:        "image_statistics",
			Description: "Compute mean, standard deviation, min/max, distinct levels, brightness-weighted entropy and the integral quality indicator of an image or region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
					"histogram": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the 256-bin histogram",
						"default":     false,
					},
				}, regionProperties(true)),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_hu_moments",
			Description: "Compute the seven Hu moment invariants of an image region. Pixels brighter than 0 count as foreground. Omit the region to use the whole image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
				}, regionProperties(false)),
				"required": []string{"path"},
			},
		},

		// Transforms
		{
			Name:        "image_filter",
			Description: "Apply a filter to the grayscale image and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
					"filter": map[string]interface{}{
						"type": "string",
						"enum": []string{
							"median", "gaussian", "separable_gaussian",
							"recursive_gaussian", "sharpen", "adaptive_threshold",
						},
						"description": "Filter to apply",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Odd window size for median, gaussian, separable_gaussian and adaptive_threshold. Default 3",
						"default":     3,
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Standard deviation for recursive_gaussian, at least 1.0. Default 2.0",
						"default":     2.0,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Offset below the local mean for adaptive_threshold. Default 0",
						"default":     0,
					},
					"policy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"binary", "binary_inverted"},
						"description": "Output polarity for adaptive_threshold. Default binary",
						"default":     "binary",
					},
				},
				"required": []string{"path", "filter"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Detect edges with Canny (binary 0/255 map) or a Sobel/Scharr gradient (magnitude or one axis). Returns base64-encoded PNG and the count of edge pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
					"operator": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"canny", "sobel", "scharr"},
						"description": "Edge operator. Default canny",
						"default":     "canny",
					},
					"axis": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"both", "horizontal", "vertical"},
						"description": "Gradient axis for sobel/scharr. 'both' returns the magnitude. Default both",
						"default":     "both",
					},
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Canny weak-edge threshold. Default 20",
						"default":     20,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Canny strong-edge threshold. Default 90",
						"default":     90,
					},
				},
				"required": []string{"path"},
			},
		},

		// Fusion
		{
			Name:        "image_combine",
			Description: "Fuse two or more images of the same size into one. Returns base64-encoded PNG with the entropy and quality of the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths of the images; the first is the base image",
					},
					"mode": modeProperty(),
					"strategy": map[string]interface{}{
						"type": "string",
						"enum": []string{
							"informative_priority", "morphological", "local_entropy",
							"differences_adding", "difference",
						},
						"description": "Fusion strategy. differences_adding and difference take exactly two images. Default informative_priority",
						"default":     "informative_priority",
					},
					"rank": map[string]interface{}{
						"type":        "boolean",
						"description": "Order images by descending entropy before fusing",
						"default":     false,
					},
					"modes": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness bands for morphological fusion. Default 16",
						"default":     16,
					},
					"fit": map[string]interface{}{
						"type":        "boolean",
						"description": "Resize every image to the size of the first",
						"default":     false,
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "image_difference",
			Description: "Compute the per-pixel absolute difference of two images. Returns base64-encoded PNG with mean and max difference.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": pathProperty(),
					"path2": pathProperty(),
					"mode":  modeProperty(),
					"fit": map[string]interface{}{
						"type":        "boolean",
						"description": "Resize the second image to the size of the first",
						"default":     false,
					},
				},
				"required": []string{"path1", "path2"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
