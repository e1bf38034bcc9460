package omr

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
)

// LoadSheet reads and decodes a sheet image from disk.
//
// Supported formats are PNG, JPEG, and GIF. The image is expected to be
// pre-cropped to the answer grid; LoadSheet does not inspect the content,
// only decodes it. Failures to open or decode the file are reported as
// *InputError naming the path.
func LoadSheet(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &InputError{Path: path, Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	return img, nil
}

// DecodeSheet decodes a sheet image from a stream, typically an HTTP
// upload. Decode failures are reported as *InputError with an empty path.
func DecodeSheet(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &InputError{Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	return img, nil
}
