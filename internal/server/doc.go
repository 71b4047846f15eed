// Package server implements the MCP (Model Context Protocol) server for
// yellow-region detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the detector and
// its tuning aids through the MCP protocol, so an assistant can inspect
// frames, tune the colour band and check tracking behaviour.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Detection:
//   - yellow_detect: Bounding box of the largest yellow region
//   - yellow_mask: Thresholded mask as PNG
//   - yellow_sample_hsv: HSV reading of pixels against the band
//
// Tracking:
//   - yellow_guidance: Steering command for the frame
//   - yellow_annotate: Frame with dead zone, box and error vector drawn
//
// Detection tools accept the band fields (lower_hue, upper_sat, min_area,
// ...) at the top level of their arguments. Omitted fields keep the
// server's defaults, set with WithDetectionConfig and WithGuidanceConfig.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images, keyed by path,
// for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or -32602 (malformed params)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.WithLogger(log.Default()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
