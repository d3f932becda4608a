// Package physics provides the damped pendulum model driven by the
// pendulum simulator.
//
// The model is an analytic single-degree-of-freedom approximation:
//
//	acceleration = -(g / L) sin(angle)
//	velocity     = (velocity + acceleration dt) * damping
//	angle       += velocity dt
//
// [Pendulum.Energy] reports energy per unit mass, which is what the
// metrics package observes to check that swings decay.
package physics
