// pre_processor.go expands "// @oxy:include <name>" lines in the embedded WGSL programs with shared
// source fragments, so the full-screen prelude, the color math and the lighting block are written once.
package shader

import (
	"fmt"
	"strings"
)

const includeDirective = "// @oxy:include "

type preProcessor struct {
	registry map[string]string
	included []string
}

// PreProcessor expands include directives in WGSL source.
type PreProcessor interface {
	// Process replaces every include directive with the registered fragment. A fragment is emitted at most
	// once per call; repeated includes of the same name expand to nothing.
	//
	// Parameters:
	//   - source: WGSL source containing include directives
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the line of an unknown include
	Process(source string) (string, error)

	// Included returns the fragment names expanded by the last Process call, in source order.
	//
	// Returns:
	//   - []string: the included fragment names
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the built-in fragments registered:
// "fullscreen", "color" and "lighting".
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]string{
			"fullscreen": fullscreenSource,
			"color":      colorSource,
			"lighting":   lightingSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	seen := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			out = append(out, line)
			continue
		}
		name = strings.TrimSpace(name)
		fragment, known := p.registry[name]
		if !known {
			return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		p.included = append(p.included, name)
		out = append(out, fragment)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Included() []string {
	return p.included
}
