package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"
)

// Vec3 is a point or direction in world space. Y is the vertical axis;
// the playfield is the X/Z plane.
type Vec3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IsZero reports whether v is the zero vector.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Normalized returns v scaled to unit length, or the zero vector unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// HorizontalDist returns the distance from the world origin in the X/Z plane.
func (v Vec3) HorizontalDist() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// Distance returns the distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// HeadingOf returns the heading angle of a direction in the X/Z plane.
func HeadingOf(dir Vec3) float64 {
	return math.Atan2(dir.Z, dir.X)
}

// HeadingVec returns the unit direction vector for a heading angle.
func HeadingVec(heading float64) Vec3 {
	return Vec3{X: math.Cos(heading), Z: math.Sin(heading)}
}

// PointSegmentDist returns the minimum distance from point p to the
// segment a-b, measured in the X/Z plane.
func PointSegmentDist(p, a, b Vec3) float64 {
	abx := b.X - a.X
	abz := b.Z - a.Z
	apx := p.X - a.X
	apz := p.Z - a.Z
	ab2 := abx*abx + abz*abz
	if ab2 == 0 {
		return math.Sqrt(apx*apx + apz*apz)
	}
	t := Clamp((apx*abx+apz*abz)/ab2, 0, 1)
	dx := apx - abx*t
	dz := apz - abz*t
	return math.Sqrt(dx*dx + dz*dz)
}

// RandInDisk returns a uniform random ground point within the given radius.
func RandInDisk(radius float64) Vec3 {
	// sqrt for area-uniform sampling
	r := radius * math.Sqrt(randFloat())
	a := randFloat() * 2 * math.Pi
	return Vec3{X: math.Cos(a) * r, Z: math.Sin(a) * r}
}

// RandInAnnulus returns a random ground point between minR and maxR from center.
func RandInAnnulus(center Vec3, minR, maxR float64) Vec3 {
	r := minR + randFloat()*(maxR-minR)
	a := randFloat() * 2 * math.Pi
	return Vec3{X: center.X + math.Cos(a)*r, Y: center.Y, Z: center.Z + math.Sin(a)*r}
}

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// randFloat returns a random float64 in [0, 1) using a simple xorshift,
// seeded once from crypto/rand. Not crypto-grade; fine for spawning.
var randSrc uint64

func randFloat() float64 {
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	return float64(randSrc%10000) / 10000.0
}

func init() {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}
