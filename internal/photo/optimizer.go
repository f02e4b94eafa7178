package photo

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxWidth and MaxHeight bound the optimized report photo.
	MaxWidth  = 1920
	MaxHeight = 1080
	// JPEGQuality is the re-encode quality applied regardless of the
	// original format.
	JPEGQuality = 85
)

// Result is the outcome of optimizing a captured photo. When Fallback is
// true the original bytes are carried unmodified; optimization failure
// never blocks the capture.
type Result struct {
	Data          []byte
	ContentType   string
	OriginalSize  int
	OptimizedSize int
	Fallback      bool
}

// Reduction reports the byte-size reduction as a percentage of the
// original. Zero when the optimized file is not smaller.
func (r Result) Reduction() float64 {
	if r.OriginalSize == 0 || r.OptimizedSize >= r.OriginalSize {
		return 0
	}
	return float64(r.OriginalSize-r.OptimizedSize) / float64(r.OriginalSize) * 100
}

// Optimize decodes the captured image, downscales it to fit within
// MaxWidth×MaxHeight preserving aspect ratio, and re-encodes it as JPEG.
// On any decode or encode failure the original bytes are returned with
// Fallback set.
func Optimize(data []byte) Result {
	fallback := Result{
		Data:          data,
		ContentType:   "application/octet-stream",
		OriginalSize:  len(data),
		OptimizedSize: len(data),
		Fallback:      true,
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fallback
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > MaxWidth || height > MaxHeight {
		scale := min(float64(MaxWidth)/float64(width), float64(MaxHeight)/float64(height))
		dstW := int(float64(width) * scale)
		dstH := int(float64(height) * scale)
		if dstW < 1 {
			dstW = 1
		}
		if dstH < 1 {
			dstH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fallback
	}

	return Result{
		Data:          buf.Bytes(),
		ContentType:   "image/jpeg",
		OriginalSize:  len(data),
		OptimizedSize: buf.Len(),
	}
}
