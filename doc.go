// Package ioc provides a small inversion-of-control container. A Container
// maps abstract types to constructor functions or to already-built values,
// and resolving a type recursively constructs its whole dependency graph by
// satisfying each constructor parameter from the same registry.
//
// The Container object has comprehensive documentation about how bindings
// and lifetimes work.
//
// There are also generic helper functions (Register, RegisterInstance,
// Resolve and friends) that make using this more concise.
package ioc
