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

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// bandProperties describes the optional detection band overrides accepted
// at the top level of every detection tool.
func bandProperties() map[string]interface{} {
	return map[string]interface{}{
		"lower_hue": intProperty("Lower hue bound (inclusive). Default 20 in half-degrees (0-179)"),
		"upper_hue": intProperty("Upper hue bound (inclusive). Default 35 in half-degrees (0-179)"),
		"lower_sat": intProperty("Lower saturation bound, 0-255. Default 100"),
		"upper_sat": intProperty("Upper saturation bound, 0-255. Default 255"),
		"lower_val": intProperty("Lower value (brightness) bound, 0-255. Default 100"),
		"upper_val": intProperty("Upper value (brightness) bound, 0-255. Default 255"),
		"min_area": map[string]interface{}{
			"type":        "number",
			"description": "Noise floor: the largest region must have a contour area above this. Default 500",
		},
		"hue_units": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"half-degrees", "degrees"},
			"description": "Unit of lower_hue/upper_hue. Default half-degrees",
		},
	}
}

func prepareProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional preprocessing applied before detection, in order: crop, downscale, blur",
		"properties": map[string]interface{}{
			"region": map[string]interface{}{
				"type":        "object",
				"description": "Crop region; reported boxes are relative to it",
				"properties": map[string]interface{}{
					"x1": intProperty("Left edge X coordinate (0-based)"),
					"y1": intProperty("Top edge Y coordinate (0-based)"),
					"x2": intProperty("Right edge X coordinate (exclusive)"),
					"y2": intProperty("Bottom edge Y coordinate (exclusive)"),
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
			"max_width":  intProperty("Downscale so the width is at most this many pixels"),
			"max_height": intProperty("Downscale so the height is at most this many pixels"),
			"blur_sigma": map[string]interface{}{
				"type":        "number",
				"description": "Gaussian blur radius to suppress sensor noise",
			},
		},
	}
}

func guidanceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Tracking tolerances and camera orientation",
		"properties": map[string]interface{}{
			"dead_zone": map[string]interface{}{
				"type":        "number",
				"description": "Side of the centre square, in pixels, inside which X/Y errors are zero. Default 60",
			},
			"area_min": map[string]interface{}{
				"type":        "number",
				"description": "Below this frame coverage percentage the rig moves forward. Default 6",
			},
			"area_max": map[string]interface{}{
				"type":        "number",
				"description": "Above this frame coverage percentage the rig moves backward. Default 10",
			},
			"orientation": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"rotation": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{0, 90, 180, 270},
						"description": "Clockwise sensor rotation in degrees",
					},
					"mirrored": map[string]interface{}{
						"type":        "boolean",
						"description": "Mirror horizontally after rotating (front camera)",
					},
				},
			},
		},
	}
}

// detectionSchema builds the input schema of a detection tool from the
// shared properties plus extra.
func detectionSchema(extra map[string]interface{}) map[string]interface{} {
	props := bandProperties()
	props["path"] = pathProperty()
	props["prepare"] = prepareProperty()
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded frame is cached for subsequent detection calls.",
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

		// Detection
		{
			Name:        "yellow_detect",
			Description: "Find the largest yellow region in an image and return its bounding box, the five-value wire encoding [found, left, top, right, bottom] and mask statistics.",
			InputSchema: detectionSchema(nil),
		},
		{
			Name:        "yellow_mask",
			Description: "Return the binary colour mask (white = inside the band) as base64-encoded PNG. Use this to see what the band selects before tuning it.",
			InputSchema: detectionSchema(nil),
		},
		{
			Name:        "yellow_sample_hsv",
			Description: "Report the HSV encoding of one or more pixels and whether each falls inside the detection band. Use this to tune band bounds.",
			InputSchema: func() map[string]interface{} {
				props := bandProperties()
				props["path"] = pathProperty()
				props["x"] = intProperty("X coordinate (0-based, from left)")
				props["y"] = intProperty("Y coordinate (0-based, from top)")
				props["points"] = map[string]interface{}{
					"type":        "array",
					"description": "Points to sample instead of a single x/y",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "integer"},
							"y":     map[string]interface{}{"type": "integer"},
							"label": map[string]interface{}{"type": "string"},
						},
						"required": []string{"x", "y"},
					},
				}
				return map[string]interface{}{
					"type":       "object",
					"properties": props,
					"required":   []string{"path"},
				}
			}(),
		},

		// Tracking
		{
			Name:        "yellow_guidance",
			Description: "Detect the yellow region and compute the steering command: centre error with dead zone, coverage percentage and forward/backward depth command, plus the 'x,y,z' line sent to the rig.",
			InputSchema: detectionSchema(map[string]interface{}{
				"guidance": guidanceProperty(),
			}),
		},
		{
			Name:        "yellow_annotate",
			Description: "Draw the detection over the frame as a tracking display would: dead zone, depth-coloured bounding box and error vector. Returns base64-encoded PNG and the command.",
			InputSchema: detectionSchema(map[string]interface{}{
				"guidance": guidanceProperty(),
				"box_color": map[string]interface{}{
					"type":        "string",
					"description": "Override the box colour as '#RRGGBB' or '#RRGGBBAA'",
				},
				"show_label": map[string]interface{}{
					"type":        "boolean",
					"description": "Print the centre error next to the box",
					"default":     false,
				},
			}),
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
