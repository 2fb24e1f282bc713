package common

// Key codes used by the interactive demo. Values match GLFW, which uses ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyB = 66 // toggle bloom
	KeyF = 70 // toggle FXAA
	KeyH = 72 // toggle HDR
	KeyP = 80 // toggle the whole post-processing stack
	KeyR = 82 // cycle render scale
	KeyT = 84 // cycle tone mapping mode
	Key1 = 49 // LUT resolution 16
	Key2 = 50 // LUT resolution 32
	Key3 = 51 // LUT resolution 64
)
