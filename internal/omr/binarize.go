package omr

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// smoothingRadius is the Gaussian radius applied before thresholding.
// Radius 2 produces a 5x5 kernel, enough to suppress scanner speckle
// without bleeding ink across option bands.
const smoothingRadius = 2.0

// Binarize converts a sheet image into a binary ink mask.
//
// The mask has the same dimensions as the input, anchored at the origin,
// and every sample is either 255 (ink) or 0 (paper). Binarize never fails
// on a decoded image; decode problems are reported upstream by LoadSheet
// and DecodeSheet as *InputError.
//
// # Algorithm
//
//  1. Grayscale conversion using ITU-R BT.601 luminance weights
//     (0.299*R + 0.587*G + 0.114*B)
//
//  2. Gaussian smoothing with a 5x5 kernel to suppress noise that would
//     otherwise register as stray ink
//
//  3. Global thresholding with Otsu's method: the threshold that best
//     separates the histogram into two classes, so the same sheet scanned
//     lighter or darker still splits into ink and paper
//
//  4. Inversion: samples at or below the threshold (dark marks) become
//     255, samples above it (paper) become 0
//
// The threshold is recomputed for every image, so absolute brightness
// does not matter; only the contrast between marks and paper does.
func Binarize(img image.Image) *image.Gray {
	smoothed := blur.Gaussian(imaging.Grayscale(img), smoothingRadius)
	gray := toGray(smoothed)
	return applyInverseThreshold(gray, otsuThreshold(gray))
}

// toGray collapses an image to 8-bit grayscale, re-anchored at the origin.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// otsuThreshold picks the gray level that maximizes the between-class
// variance of the histogram. Pixels at or below the returned value are
// considered ink.
func otsuThreshold(gray *image.Gray) uint8 {
	var histogram [256]int
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histogram[gray.GrayAt(x, y).Y]++
		}
	}

	total := bounds.Dx() * bounds.Dy()
	var weightedSum float64
	for value, count := range histogram {
		weightedSum += float64(value * count)
	}

	var backgroundWeight, backgroundSum float64
	bestVariance := -1.0
	var best uint8
	for t := 0; t < 256; t++ {
		backgroundWeight += float64(histogram[t])
		if backgroundWeight == 0 {
			continue
		}
		foregroundWeight := float64(total) - backgroundWeight
		if foregroundWeight == 0 {
			break
		}
		backgroundSum += float64(t * histogram[t])

		backgroundMean := backgroundSum / backgroundWeight
		foregroundMean := (weightedSum - backgroundSum) / foregroundWeight
		diff := backgroundMean - foregroundMean

		variance := backgroundWeight * foregroundWeight * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			best = uint8(t)
		}
	}
	return best
}

// applyInverseThreshold maps samples at or below the threshold to 255 and
// everything brighter to 0, in place.
func applyInverseThreshold(gray *image.Gray, threshold uint8) *image.Gray {
	for i, v := range gray.Pix {
		if v <= threshold {
			gray.Pix[i] = 255
		} else {
			gray.Pix[i] = 0
		}
	}
	return gray
}
