// Package jux creates and checks verifiable JUnit XML test reports. A
// report is canonicalized, hashed into a stable identity, signed with an
// enveloped XML signature, and optionally archived locally or published
// to a collection API.
//
// The implementation lives under internal/ following hexagonal
// architecture: domain types and port interfaces in internal/core,
// adapters in internal/adapters. This package re-exports the public
// surface so the module can be embedded without reaching into internal
// packages.
package jux

const Version = "0.4.0"
