package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// EncodedImage is a buffer rendered as a base64 PNG for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode renders b as an 8-bit grayscale PNG.
func Encode(b *raster.Buffer) (*EncodedImage, error) {
	if b.IsEmpty() {
		return nil, raster.ErrEmptyBuffer
	}

	var buf bytes.Buffer
	encode := imgio.PNGEncoder()
	if err := encode(&buf, ToImage(b)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       b.Width(),
		Height:      b.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
