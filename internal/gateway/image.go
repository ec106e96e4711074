package gateway

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// ResizeInPlace scales the image at path to width x height, overwriting the
// original. This is the reference behavior.
func ResizeInPlace(path string, width, height int) error {
	return resizeFile(path, path, width, height)
}

// ResizeTo scales the image at path to width x height and writes the result
// to outputPath, leaving the original untouched.
func ResizeTo(path, outputPath string, width, height int) error {
	return resizeFile(path, outputPath, width, height)
}

func resizeFile(srcPath, dstPath string, width, height int) error {
	if width <= 0 || height <= 0 {
		return Errf(KindAdapterFailure, "invalid dimensions %dx%d", width, height)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Errf(KindNotFound, "file not found: %s", srcPath)
		}
		return Errf(KindAdapterFailure, "open %s: %v", srcPath, err)
	}
	src, format, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return Errf(KindAdapterFailure, "decode %s: %v", srcPath, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out, err := os.Create(dstPath)
	if err != nil {
		return Errf(KindAdapterFailure, "create %s: %v", dstPath, err)
	}
	defer out.Close()

	// Re-encode in the source format so an in-place resize never changes
	// the file's type under the caller.
	switch format {
	case "png":
		err = png.Encode(out, dst)
	case "jpeg":
		err = jpeg.Encode(out, dst, nil)
	case "gif":
		err = gif.Encode(out, dst, nil)
	default:
		return Errf(KindAdapterFailure, "unsupported image format %q", format)
	}
	if err != nil {
		return Errf(KindAdapterFailure, "encode %s: %v", dstPath, err)
	}
	return nil
}
