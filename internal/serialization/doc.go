// Package serialization reads and writes tensors in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, one entry per tensor plus optional "__metadata__"]
//	  [Tensor data: raw little-endian bytes]
//
// Each header entry records the tensor's dtype, shape and byte range within
// the data section. Tensors are written as F64; F32 inputs are widened to
// float64 when read.
//
// Example usage:
//
//	err := serialization.WriteSafeTensors("out.safetensors", map[string]*tensor.RawTensor{
//	    "table": table.Raw(),
//	}, map[string]string{"producer": "ndgraph"})
//
//	tensors, metadata, err := serialization.ReadSafeTensors("out.safetensors")
package serialization
