package storage

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"path"
	"strings"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

const jpegQuality = 90

// maxImagePixels caps width*height before a full decode. Flat images compress
// well enough that the upload size limit alone does not bound memory.
const maxImagePixels = 40_000_000

// NormalizeImage decodes an uploaded image, scales it down so its longest side
// is at most maxDimension, and re-encodes it as JPEG. Anything that is not a
// decodable image is rejected with UNSUPPORTED_TYPE.
func NormalizeImage(input UploadInput, maxDimension int) (UploadInput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return UploadInput{}, fmt.Errorf("read upload: %w", err)
	}

	detected := util.DetectMIME(data)
	if !util.IsNormalizableImageMIME(detected) && !util.IsNormalizableImageMIME(input.ContentType) {
		return UploadInput{}, apierror.New(apierror.CodeUnsupportedType, "file is not a supported image", detected, http.StatusUnsupportedMediaType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return UploadInput{}, apierror.New(apierror.CodeUnsupportedType, "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return UploadInput{}, apierror.New(apierror.CodeUnsupportedType, "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return UploadInput{}, apierror.New(apierror.CodePayloadTooLarge, "image dimensions too large",
			fmt.Sprintf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels), http.StatusRequestEntityTooLarge)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return UploadInput{}, apierror.New(apierror.CodeUnsupportedType, "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return UploadInput{}, apierror.New(apierror.CodeUnsupportedType, "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}

	dst := scaleToFit(src, bounds, maxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return UploadInput{}, fmt.Errorf("encode image: %w", err)
	}

	return UploadInput{
		Folder:      input.Folder,
		Name:        strings.TrimSuffix(input.Name, path.Ext(input.Name)) + ".jpg",
		ContentType: "image/jpeg",
		Body:        bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
	}, nil
}

func scaleToFit(src image.Image, bounds image.Rectangle, maxDimension int) *image.RGBA {
	width := bounds.Dx()
	height := bounds.Dy()

	longest := width
	if height > longest {
		longest = height
	}

	scale := 1.0
	if maxDimension > 0 && longest > maxDimension {
		scale = float64(maxDimension) / float64(longest)
	}

	targetWidth := max(int(math.Round(float64(width)*scale)), 1)
	targetHeight := max(int(math.Round(float64(height)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	// JPEG has no alpha channel.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
