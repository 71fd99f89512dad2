// Package cluster generates synthetic two-dimensional datasets made of
// Gaussian point clusters.
//
// A Dataset is built in one call to Generate and is never mutated afterwards.
// Every draw comes from a single seeded source, so the same Params always
// produce the same Dataset.
package cluster
