// Package wall models a building wall as a stack of material layers and
// derives its geometry (dimensions, face area, volume, bounding box) and
// material cost.
//
// Layers occupy axis-aligned boxes given by two opposite corners. Openings
// (cuts, windows, doors) are layers that remove material: their volume is
// negative so that summing a wall subtracts them automatically. Connections
// describe the shared interface between two touching elements so that the
// interface volume is counted only once.
//
// All constructors validate their input; a value obtained from a
// constructor is always in a valid state.
package wall
