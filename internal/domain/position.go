package domain

import "math"

type Position struct {
	Region uint16 `json:"region"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Z      int32  `json:"z"`
}

// Distance returns the 3D distance between two positions, or +Inf when they
// are in different regions.
func (p Position) Distance(o Position) float64 {
	if p.Region != o.Region {
		return math.Inf(1)
	}

	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	dz := float64(p.Z - o.Z)

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (p Position) WithinDistance(o Position, radius int) bool {
	if radius < 0 {
		return false
	}
	return p.Distance(o) <= float64(radius)
}

// HeadingTo returns the heading (0..4095, 0 = south, clockwise) that faces o.
func (p Position) HeadingTo(o Position) uint16 {
	dx := float64(o.X - p.X)
	dy := float64(o.Y - p.Y)

	angle := math.Atan2(-dx, dy) * (2048.0 / math.Pi)
	if angle < 0 {
		angle += 4096
	}

	return uint16(math.Round(angle)) & 0x0FFF
}
