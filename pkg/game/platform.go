package game

import "runtime"

// IsWASM returns true when running in WebAssembly environment
func IsWASM() bool {
	return runtime.GOOS == "js"
}
