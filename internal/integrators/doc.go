// Package integrators provides single-step ODE methods for [dynamo.System] values.
//
//   - [DormandPrince]: embedded 5(4) Runge-Kutta pair with an error estimate,
//     step-size proposal and initial step selection
//   - [RK4]: classic fixed-step fourth order Runge-Kutta
//
// The stepping loop, reporting grid and failure handling live in package sim.
package integrators
