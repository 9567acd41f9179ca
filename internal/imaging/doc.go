// Package imaging connects image files to the grayscale engine.
//
// It decodes PNG, JPEG and GIF files, caches them, and converts them into
// raster.Buffer values. It also renders buffers back to base64 PNG for the
// MCP transport. All coordinates are 0-based with (0,0) at the top-left;
// X grows rightward (columns) and Y grows downward (rows).
//
// # Ingestion Modes
//
// Color sources are reduced to one 8-bit channel in one of two ways:
//   - ModeAverage: truncated (r+g+b)/3, the engine's native conversion
//   - ModeLuminance: CIE L* lightness, closer to perceived brightness
//
// Grayscale sources yield identical buffers in both modes up to rounding.
//
// # Regions
//
// Region uses an inclusive top-left and exclusive bottom-right corner.
// Regions may extend past the image edge; the missing pixels are produced by
// reflection, matching the engine's boundary handling.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Cached buffers are shared and must
// not be modified in place.
package imaging
