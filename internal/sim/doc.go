// Package sim drives the integration of a [dynamo.System] over a reporting grid.
//
// [Solver.Integrate] runs one simulation to completion and returns a dense
// [dynamo.Trajectory]. The default method is an adaptive Dormand-Prince 5(4)
// scheme whose internal steps are independent of the grid spacing; the grid
// only fixes where states are reported. A fixed-step RK4 method is available
// for comparison.
//
// Failures are reported, never papered over: if the step size controller
// cannot meet the tolerance the call fails with [dynamo.ErrIntegrationDivergence]
// and no partial trajectory is returned.
//
// [Solver.Sweep] runs many independent simulations concurrently, for example
// to scan the damping coefficient.
package sim
