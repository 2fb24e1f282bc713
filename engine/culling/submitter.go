package culling

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
)

type queueSubmitter struct{}

var _ DrawSubmitter = queueSubmitter{}

// NewQueueSubmitter returns a submitter that filters visible drawables by queue range and layer mask and
// draws them in sort order.
//
// Returns:
//   - DrawSubmitter: the submitter
func NewQueueSubmitter() DrawSubmitter {
	return queueSubmitter{}
}

func (queueSubmitter) DrawRenderers(ctx renderer.Context, results Results, settings DrawSettings, filter FilterSettings) error {
	var eye [3]float32
	if cam := results.Camera(); cam != nil {
		eye = cam.Position()
	}
	type entry struct {
		d    Drawable
		dist float32
	}
	var batch []entry
	for _, d := range results.Drawables() {
		if !filter.Queue.Contains(d.RenderQueue()) || d.RenderingLayerMask()&filter.RenderingLayerMask == 0 {
			continue
		}
		center, _ := d.Bounds()
		dx, dy, dz := center[0]-eye[0], center[1]-eye[1], center[2]-eye[2]
		batch = append(batch, entry{d: d, dist: dx*dx + dy*dy + dz*dz})
	}
	slices.SortStableFunc(batch, func(a, b entry) int {
		if c := cmp.Compare(a.d.RenderQueue(), b.d.RenderQueue()); c != 0 {
			return c
		}
		if settings.Sorting == SortCommonTransparent {
			return cmp.Compare(b.dist, a.dist)
		}
		return cmp.Compare(a.dist, b.dist)
	})
	for _, e := range batch {
		if err := e.d.Draw(ctx, settings); err != nil {
			return fmt.Errorf("failed to draw %q: %w", e.d.Name(), err)
		}
	}
	return nil
}
