// Package server implements the MCP (Model Context Protocol) server for grayscale
// image analysis and fusion.
//
// The server reads JSON-RPC 2.0 requests from stdin, one per line, and writes
// responses to stdout. Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Notifications (requests without an id) never receive a response.
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region Operations:
//   - image_crop: Extract a rectangle or named region as PNG
//
// Descriptors:
//   - image_statistics: Mean, deviation, entropy and quality of an image or region
//   - image_hu_moments: Seven Hu invariants of a region
//
// Transforms:
//   - image_filter: Median, Gaussian, recursive Gaussian, sharpen, adaptive threshold
//   - image_edge_detect: Canny or Sobel/Scharr gradients
//
// Fusion:
//   - image_combine: Fuse several same-size images with one of five strategies
//   - image_difference: Per-pixel absolute difference of two images
//
// Every tool that takes a path accepts a "mode" argument choosing how color
// pixels are reduced to gray (see imaging.Mode). Decoded images and their gray
// rasters are cached by path for the lifetime of the process.
//
// # Error Handling
//
// Bad arguments produce -32602. Failures inside a tool produce -32000 with the
// Go error string in data; filter and fusion failures name their result code,
// e.g. "median (result \"incorrect filter size\"): filter: incorrect filter size".
//
// # Configuration
//
// Defaults for omitted parameters come from config.Config:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv := server.New(
//	    server.WithConfig(cfg),
//	    server.WithLogger(logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))),
//	)
//	if err := srv.Run(); err != nil {
//	    return err
//	}
//
// Without options the server uses config.Default() and discards logs.
package server
