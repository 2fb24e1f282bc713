package camera

import "math"

// Orbit moves a camera on a circle around its target at a fixed elevation.
type Orbit struct {
	Radius    float32
	Elevation float32 // radians above the horizontal plane
	Speed     float32 // radians per second
	azimuth   float32
}

// Advance rotates the orbit by dt seconds and places cam on it, looking at its target.
//
// Parameters:
//   - cam: the camera to move
//   - dt: elapsed time in seconds
func (o *Orbit) Advance(cam Camera, dt float32) {
	o.azimuth = float32(math.Mod(float64(o.azimuth+o.Speed*dt), 2*math.Pi))
	t := cam.Target()
	cosE := float32(math.Cos(float64(o.Elevation)))
	cam.SetPosition(
		t[0]+o.Radius*cosE*float32(math.Sin(float64(o.azimuth))),
		t[1]+o.Radius*float32(math.Sin(float64(o.Elevation))),
		t[2]+o.Radius*cosE*float32(math.Cos(float64(o.azimuth))),
	)
}
