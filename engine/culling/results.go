package culling

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
)

type resultsImpl struct {
	cam            camera.Camera
	lights         []light.VisibleLight
	drawables      []Drawable
	shadowDistance float32
	indexMap       []int
}

var _ Results = &resultsImpl{}

// NewResults builds culling results from precomputed visibility. The light index map starts with one
// entry per visible light.
//
// Parameters:
//   - cam: the culled camera
//   - lights: the visible lights in culling order
//   - drawables: the visible drawables
//   - shadowDistance: the distance shadow casters are limited to
//
// Returns:
//   - Results: the results
func NewResults(cam camera.Camera, lights []light.VisibleLight, drawables []Drawable, shadowDistance float32) Results {
	indexMap := make([]int, len(lights))
	for i := range indexMap {
		indexMap[i] = i
	}
	return &resultsImpl{
		cam:            cam,
		lights:         lights,
		drawables:      drawables,
		shadowDistance: shadowDistance,
		indexMap:       indexMap,
	}
}

func (r *resultsImpl) Camera() camera.Camera {
	return r.cam
}

func (r *resultsImpl) VisibleLights() []light.VisibleLight {
	return r.lights
}

func (r *resultsImpl) Drawables() []Drawable {
	return r.drawables
}

func (r *resultsImpl) ShadowDistance() float32 {
	return r.shadowDistance
}

func (r *resultsImpl) LightIndexMapSize() int {
	return len(r.indexMap)
}

func (r *resultsImpl) LightIndexMap() []int {
	return r.indexMap
}

func (r *resultsImpl) SetLightIndexMap(indexMap []int) {
	r.indexMap = append(r.indexMap[:0], indexMap...)
}

// ShadowCasterBounds reports whether a shadow-casting drawable lies within the shadow distance of the
// camera and, for point and spot lights, within the light's range.
func (r *resultsImpl) ShadowCasterBounds(visibleIndex int) bool {
	if visibleIndex < 0 || visibleIndex >= len(r.lights) {
		return false
	}
	v := r.lights[visibleIndex]
	var eye [3]float32
	if r.cam != nil {
		eye = r.cam.Position()
	}
	for _, d := range r.drawables {
		if !d.CastsShadows() {
			continue
		}
		center, radius := d.Bounds()
		if !sphereWithin(center, radius, eye, r.shadowDistance) {
			continue
		}
		if v.Type == light.LightTypeDirectional || sphereWithin(center, radius, v.Position, v.Range) {
			return true
		}
	}
	return false
}

// sphereWithin reports whether a sphere overlaps the ball of the given radius around origin.
func sphereWithin(center [3]float32, radius float32, origin [3]float32, distance float32) bool {
	dx, dy, dz := center[0]-origin[0], center[1]-origin[1], center[2]-origin[2]
	reach := radius + distance
	return dx*dx+dy*dy+dz*dz <= reach*reach
}
