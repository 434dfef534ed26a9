//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}
	if len(spirvBytes) == 0 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("naga produced %d bytes of SPIR-V", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
