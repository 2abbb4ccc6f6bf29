package systems

import "math"

// Ring sampling constants.
const (
	ringInnerRadius = 5.0
	ringSpacing     = 3.0
	ringAngleStep   = 0.02
	ringWaveLobes   = 8
	ringWaveHeight  = 2.0
)

// RingPoint is one vertex of a wavy ring. Yin marks the faint half of the emblem.
type RingPoint struct {
	X, Y float64
	Yin  bool
}

// YinYang is a set of concentric wavy rings split into yin and yang halves.
type YinYang struct {
	Center    Center
	MaxRadius float64
}

// NewYinYang lays the emblem out on a square surface of the given size.
func NewYinYang(size float64) *YinYang {
	return &YinYang{
		Center:    Center{X: size / 2, Y: size / 2},
		MaxRadius: size * 0.45,
	}
}

// RingCount is the number of rings drawn per frame.
func (y *YinYang) RingCount() int {
	if y.MaxRadius <= ringInnerRadius {
		return 0
	}
	return int(math.Ceil((y.MaxRadius - ringInnerRadius) / ringSpacing))
}

// Ring appends the vertices of ring i at time t to dst and returns it.
func (y *YinYang) Ring(dst []RingPoint, i int, t float64) []RingPoint {
	r := ringInnerRadius + float64(i)*ringSpacing
	quarter := y.MaxRadius / 4

	for angle := 0.0; angle < 2*math.Pi; angle += ringAngleStep {
		wave := math.Sin(angle*ringWaveLobes+r*0.1+t) * ringWaveHeight
		px := y.Center.X + (r+wave)*math.Cos(angle)
		py := y.Center.Y + (r+wave)*math.Sin(angle)

		var yin bool
		if angle > math.Pi {
			yin = distance(px, py, y.Center.X, y.Center.Y+quarter) < quarter
		} else {
			yin = distance(px, py, y.Center.X, y.Center.Y-quarter) > quarter
		}
		dst = append(dst, RingPoint{X: px, Y: py, Yin: yin})
	}
	return dst
}
