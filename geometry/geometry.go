// Package geometry implements the 2D float vector math shared by the
// simulator, milestone compiler and mutation library.
package geometry

import "math"

// V2 is a 2D point or vector with 32-bit float components, matching the
// game's own coordinate precision.
type V2 struct {
	X, Y float32
}

// Zero is the origin.
func Zero() V2 {
	return V2{}
}

func (a V2) Add(b V2) V2 {
	return V2{X: a.X + b.X, Y: a.Y + b.Y}
}

func (a V2) Sub(b V2) V2 {
	return V2{X: a.X - b.X, Y: a.Y - b.Y}
}

func (a V2) Mul(scalar float32) V2 {
	return V2{X: a.X * scalar, Y: a.Y * scalar}
}

// DistanceSquared avoids the sqrt when only comparisons are needed, which is
// most call sites (closest-target search, kill-range checks).
func (a V2) DistanceSquared(b V2) float32 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

func (a V2) Distance(b V2) float32 {
	return float32(math.Sqrt(float64(a.DistanceSquared(b))))
}

// StepToward returns the point reached by moving from a toward target by at
// most maxStep units: target itself if already within maxStep, else a point
// maxStep units along the line from a to target.
func (a V2) StepToward(target V2, maxStep float32) V2 {
	diff := target.Sub(a)
	distance := diff.Distance(V2{})
	if distance <= maxStep {
		return target
	}
	if distance == 0 {
		return a
	}
	return a.Add(diff.Mul(maxStep / distance))
}

// Floor rounds both components down (toward negative infinity) to
// integer-valued floats, matching the game engine's integer grid.
func (a V2) Floor() V2 {
	return V2{X: float32(math.Floor(float64(a.X))), Y: float32(math.Floor(float64(a.Y)))}
}

// Clamp bounds both components into [0, width] x [0, height].
func (a V2) Clamp(width, height float32) V2 {
	return V2{
		X: clamp(a.X, 0, width),
		Y: clamp(a.Y, 0, height),
	}
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
