package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// ImageCache provides thread-safe caching of decoded images and of their
// grayscale buffers, keyed by file path.
//
// A path is decoded at most once. Grayscale conversions are cached per
// ingestion mode, so asking for the same path in average and luminance mode
// yields two independent buffers sharing one decoded image.
//
// Buffers returned by Gray are shared between callers and must be treated
// as read-only. Every engine operation allocates its own output, so this only
// matters to code that writes into a buffer directly; such code should Clone
// first.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	buf, err := cache.Gray("/path/to/image.png", imaging.ModeAverage)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.png") // Optional: free memory
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	img    image.Image
	format string
	gray   map[Mode]*raster.Buffer
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]*cacheEntry),
	}
}

func (c *ImageCache) entry(path string) (*cacheEntry, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have won the race; keep its entry.
	if existing, ok := c.entries[path]; ok {
		return existing, nil
	}
	e = &cacheEntry{img: img, format: format, gray: make(map[Mode]*raster.Buffer)}
	c.entries[path] = e
	return e, nil
}

// Load retrieves the decoded image for path, reading it from disk on first use.
// Supported formats are PNG, JPEG and GIF.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// Gray returns the grayscale buffer of path under the given ingestion mode.
func (c *ImageCache) Gray(path string, mode Mode) (*raster.Buffer, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	buf, ok := e.gray[mode]
	c.mu.RUnlock()
	if ok {
		return buf, nil
	}

	buf, err = ToBuffer(e.img, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	c.mu.Lock()
	e.gray[mode] = buf
	c.mu.Unlock()
	return buf, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image, and its grayscale buffers, from the cache.
// If the path is not cached, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached paths.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the decoder: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// ColorModel is "gray" for single-channel sources and "rgb" otherwise.
	// Both are ingested as 8-bit grayscale buffers.
	ColorModel string `json:"color_model"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha channel. Alpha is
	// ignored on ingestion.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and returns its metadata.
//
// Color depth and alpha are derived from the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA and their 16-bit forms carry alpha
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.entry(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &ImageInfo{
		Width:         e.img.Bounds().Dx(),
		Height:        e.img.Bounds().Dy(),
		Format:        e.format,
		ColorModel:    "rgb",
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
	}
	switch e.img.(type) {
	case *image.Gray:
		info.ColorModel = "gray"
	case *image.Gray16:
		info.ColorModel = "gray"
		info.ColorDepth = "16-bit"
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	}
	return info, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
