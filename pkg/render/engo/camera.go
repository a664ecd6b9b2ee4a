// pkg/render/engo/camera.go
package engo

// Viewport maps lander altitude to screen coordinates. Screen Y grows
// downward; the surface sits GroundMargin pixels above the bottom edge.
type Viewport struct {
	Height       float32 // screen height in pixels
	TopAltitude  float64 // altitude shown at TopMargin
	TopMargin    float32
	GroundMargin float32
}

// NewViewport creates a viewport for a screen of the given height showing
// altitudes up to topAltitude.
func NewViewport(height float32, topAltitude float64) Viewport {
	if topAltitude <= 0 {
		topAltitude = 1
	}
	return Viewport{
		Height:       height,
		TopAltitude:  topAltitude,
		TopMargin:    40,
		GroundMargin: 60,
	}
}

// GroundY returns the screen Y of the landing surface.
func (v Viewport) GroundY() float32 {
	return v.Height - v.GroundMargin
}

// PixelsPerMeter returns the vertical scale.
func (v Viewport) PixelsPerMeter() float32 {
	return (v.GroundY() - v.TopMargin) / float32(v.TopAltitude)
}

// AltitudeToY returns the screen Y for altitude. Altitudes above the top
// are pinned to the top margin; below the surface to the surface.
func (v Viewport) AltitudeToY(altitude float64) float32 {
	if altitude < 0 {
		altitude = 0
	}
	if altitude > v.TopAltitude {
		altitude = v.TopAltitude
	}
	return v.GroundY() - float32(altitude)*v.PixelsPerMeter()
}
