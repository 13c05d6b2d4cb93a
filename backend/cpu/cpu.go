// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/ndgraph/internal/backend/cpu"
	"github.com/born-ml/ndgraph/internal/parallel"
	"github.com/born-ml/ndgraph/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Config controls parallel evaluation of element-wise operations.
type Config = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a sequential CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/ndgraph/backend/cpu"
//	    "github.com/born-ml/ndgraph/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend that splits large element-wise
// operations across goroutines according to cfg.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.DefaultConfig())
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns a parallel configuration using all CPUs.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}
