package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithProperties declares the float properties of the material's shader, replacing StandardProperties.
// Unlit or custom shaders without a premultiply property cannot take the Transparent preset.
//
// Parameters:
//   - props: the declared properties
//
// Returns:
//   - MaterialBuilderOption: a function that applies the property set to a material
func WithProperties(props ...Property) MaterialBuilderOption {
	return func(m *material) {
		m.properties = make(map[Property]float32, len(props))
		for _, p := range props {
			m.properties[p] = 0
		}
	}
}

// WithRenderQueue sets the initial render queue.
func WithRenderQueue(queue int) MaterialBuilderOption {
	return func(m *material) {
		m.renderQueue = queue
	}
}
