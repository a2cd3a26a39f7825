// Package dynamo provides the core primitives shared by the simulation packages.
//
// The package defines the value types and interfaces the model, the steppers and the
// driver agree on:
//
//   - [State]: vector representing an instantaneous system state
//   - [System]: interface for first-order ODE systems (dX/dt = f(X, t))
//   - [TimeGrid]: strictly increasing reporting times of one run
//   - [Trajectory]: read-only states sampled on a [TimeGrid]
//   - [Metric]: observer evaluated over a finished trajectory
//
// # Example
//
//	model, _ := physics.NewCoupledSprings(physics.DefaultParams())
//	grid := dynamo.Linspace(0, 20, 1000)
//	tr, err := sim.Integrate(model, physics.NewState(1, 0, 0, 0), grid)
//
// # Thread Safety
//
// A [Trajectory] is never modified after it is returned and may be shared between
// goroutines. Accessors return copies.
package dynamo
