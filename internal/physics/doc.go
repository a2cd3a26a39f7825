// Package physics provides the coupled spring-mass model.
//
// [CoupledSprings] implements [dynamo.System] with the state layout
// [x1, x2, v1, v2] (displacement and velocity of each mass from equilibrium)
// and [dynamo.Hamiltonian] for the total mechanical energy.
//
// # Building a model
//
// Parameters are checked once, when the model is built:
//
//	model, err := physics.NewCoupledSprings(physics.Params{M1: 1, M2: 1, K1: 1, K2: 1, C: 0.05})
//	if errors.Is(err, dynamo.ErrInvalidParameters) {
//	    // non-positive mass, negative stiffness or damping, or a non-finite value
//	}
//
// Derive performs no checks and allocates only its result, so integrators may
// call it as often as they need.
package physics
