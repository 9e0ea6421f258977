// Package imageio loads images from files or URLs and writes results back
// out as JPEG, PNG or WebP.
package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Output formats.
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// DefaultQuality is the JPEG and lossy WebP quality used when none is given.
const DefaultQuality = 95

// Codec handles image decoding and encoding.
type Codec struct {
	client    *http.Client
	userAgent string
}

// New creates a Codec with a 30 second download timeout.
func New() *Codec {
	return NewWithClient(&http.Client{Timeout: 30 * time.Second})
}

// NewWithClient creates a Codec that downloads with the given client.
func NewWithClient(c *http.Client) *Codec {
	return &Codec{client: c, userAgent: "PoeticaPic/1.0"}
}

// Client returns the HTTP client used for downloads.
func (c *Codec) Client() *http.Client {
	return c.client
}

// LoadFromURL downloads and decodes an image.
func (c *Codec) LoadFromURL(ctx context.Context, imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return Decode(data)
}

// Load reads an image file. Any format with a registered decoder works,
// WebP included. The EXIF orientation of JPEG files is applied.
func (c *Codec) Load(path string) (image.Image, error) {
	if img, err := imaging.Open(path, imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadSmart loads from a URL when source looks like one, from disk otherwise.
func (c *Codec) LoadSmart(ctx context.Context, source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return c.LoadFromURL(ctx, source)
	}
	return c.Load(source)
}

// Decode decodes image bytes, trying the registered decoders and then the
// WebP codec. The EXIF orientation of JPEG files is applied.
func Decode(data []byte) (image.Image, error) {
	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// NormalizeFormat maps user supplied format names onto the output formats.
// The empty string selects JPEG.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// Encode writes img to w in the given format. Quality applies to JPEG and
// lossy WebP.
func Encode(w io.Writer, img image.Image, format string, quality int, lossless bool) error {
	f, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	switch f {
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
}

// Save writes img to path in the given format.
func (c *Codec) Save(img image.Image, path, format string, quality int, lossless bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format, quality, lossless); err != nil {
		f.Close()
		return err
	}
	log.WithFields(log.Fields{"path": path, "format": format}).Debug("image saved")
	return f.Close()
}

// PrepareForModel shrinks img so that its longer side is at most maxDim
// and returns it base64 encoded, ready to attach to a vision model request.
func PrepareForModel(img image.Image, format string, maxDim int, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	default:
		if quality <= 0 || quality > 100 {
			quality = 85
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
