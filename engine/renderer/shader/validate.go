package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// Validate compiles the program's WGSL to SPIR-V with naga, surfacing syntax and type errors before the
// source reaches a GPU device.
//
// Parameters:
//   - p: the program to validate
//
// Returns:
//   - []byte: the SPIR-V module
//   - error: an error if the source cannot be expanded or compiled
func Validate(p Program) ([]byte, error) {
	src, err := p.Source()
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", p, err)
	}
	return spirv, nil
}
