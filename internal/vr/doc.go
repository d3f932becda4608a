// Package vr provides the shared primitives of the interaction core.
//
// The core is split by concern, leaves first:
//
//   - scene: arena scene graph with index-based parents
//   - pick: ray casting against pickable objects
//   - selection: highlight state per pointer
//   - grab: per-hand grab/release state machine
//   - locomotion: stick, keyboard and drag-look movement of the player frame
//   - sim: damped pendulum bodies that yield to the grab controller
//   - interaction: the per-tick orchestration over an explicit Context
//
// This package holds the identifiers every layer agrees on ([Hand],
// [Pointer], [Color]) and the domain errors.
//
// # Thread Safety
//
// The core is single-threaded and frame driven. Only [input.Queue] may be
// written from other goroutines; everything else is owned by the tick.
package vr
