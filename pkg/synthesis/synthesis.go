// Package synthesis defines the image-synthesis oracle contract used by the
// animation engine, an HTTP client for Stable-Diffusion-WebUI-compatible
// backends, and a mock for tests. The engine treats the oracle as a black
// box: conditioning image in, refined image of the same dimensions out.
package synthesis

import (
	"context"
	"image"
)

// Request carries one img2img refinement call.
type Request struct {
	// Image is the conditioning image. The oracle must return an image of
	// the same dimensions.
	Image image.Image

	Prompt         string
	NegativePrompt string

	// Strength is the denoising strength in [0, 1].
	Strength float64

	// GuidanceScale is the classifier-free guidance weight.
	GuidanceScale float64

	// Steps is the sampling step count.
	Steps int

	// Seed selects the noise; negative means unspecified/random.
	Seed int64

	// Sampler is the sampler name, resolved through the registry.
	Sampler string

	Width  int
	Height int
}

// Response is the oracle's output for one request.
type Response struct {
	Image     image.Image
	LatencyMs int64
}

// Oracle is the synthesis provider interface. Implementations must be
// safe for repeated calls within one run.
type Oracle interface {
	// Synthesize refines the conditioning image into a new image.
	Synthesize(ctx context.Context, req *Request) (*Response, error)

	// Health checks backend connectivity.
	Health(ctx context.Context) error

	// Close releases resources.
	Close() error
}
