package oss

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	maxUploadSize = int64(5 * 1024 * 1024)
	maxImageSide  = 1600
	webpQuality   = 80
)

// ConvertToWebP decodes an uploaded jpeg/png/webp, bounds it to maxImageSide
// keeping aspect, and re-encodes as lossy webp. Session photos and payment
// screenshots both go through this.
func ConvertToWebP(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, fmt.Errorf("nil file header")
	}
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("file too large (max %d bytes)", maxUploadSize)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	img, _, err := image.Decode(bytes.NewReader(all))
	if err != nil {
		// the standard decoders only cover jpeg/png; try webp before giving up
		img, err = webp.Decode(bytes.NewReader(all))
		if err != nil {
			return nil, fmt.Errorf("unsupported image format")
		}
	}

	b := img.Bounds()
	if b.Dx() > maxImageSide || b.Dy() > maxImageSide {
		img = imaging.Fit(img, maxImageSide, maxImageSide, imaging.CatmullRom)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
