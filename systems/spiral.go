package systems

import "math"

// Spiral step constants.
const (
	spiralStepsPerSweep = 260   // frames from center to max radius
	spiralAngleStep     = 0.025 // radians per frame
	spiralRadiusFactor  = 0.9   // max radius as a fraction of the half size
)

// SpiralPoint is one sample of the drawn line with the clock value it was drawn at.
type SpiralPoint struct {
	X, Y      float64
	Timestamp float64
}

// Spiral is a line drawn outward from the center one point per frame.
// When it passes the max radius it restarts from the center.
type Spiral struct {
	Center    Center
	MaxRadius float64

	radius float64
	angle  float64
	points []SpiralPoint
}

// NewSpiral creates a spiral filling a square surface of the given size.
func NewSpiral(size float64) *Spiral {
	s := &Spiral{}
	s.Layout(size)
	return s
}

// Layout recomputes the center and max radius for a new size and restarts.
func (s *Spiral) Layout(size float64) {
	s.Center = Center{X: size / 2, Y: size / 2}
	s.MaxRadius = size / 2 * spiralRadiusFactor
	s.Reset()
}

// Reset restarts the line at the center.
func (s *Spiral) Reset() {
	s.radius = 0
	s.angle = 0
	s.points = s.points[:0]
}

// Step extends the line by one point stamped with t.
func (s *Spiral) Step(t float64) {
	s.radius += s.MaxRadius / spiralStepsPerSweep
	s.angle += spiralAngleStep

	s.points = append(s.points, SpiralPoint{
		X:         s.Center.X + math.Cos(s.angle)*s.radius,
		Y:         s.Center.Y + math.Sin(s.angle)*s.radius,
		Timestamp: t,
	})

	if s.radius > s.MaxRadius {
		s.Reset()
	}
}

// Points returns the drawn samples, oldest first.
func (s *Spiral) Points() []SpiralPoint {
	return s.points
}

// Head returns the most recent point, or the center when nothing is drawn.
func (s *Spiral) Head() (float64, float64) {
	if len(s.points) == 0 {
		return s.Center.X, s.Center.Y
	}
	p := s.points[len(s.points)-1]
	return p.X, p.Y
}

// SegmentAge maps the age of a segment start to [0, 1]; older is darker.
func SegmentAge(now, timestamp float64) float64 {
	return math.Min((now-timestamp)/10, 1)
}
