package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

var _ = Describe("Coupled springs", func() {
	var (
		grid dynamo.TimeGrid
		x0   dynamo.State
	)

	BeforeEach(func() {
		grid = dynamo.Linspace(0, 20, 1000)
		x0 = physics.NewState(1, 0, 0, 0)
	})

	integrate := func(p physics.Params) (*physics.CoupledSprings, *dynamo.Trajectory) {
		model, err := physics.NewCoupledSprings(p)
		Expect(err).NotTo(HaveOccurred())
		tr, err := sim.Integrate(model, x0, grid)
		Expect(err).NotTo(HaveOccurred())
		return model, tr
	}

	Describe("building the model", func() {
		DescribeTable("rejects non-positive masses",
			func(m1, m2 float64) {
				_, err := physics.NewCoupledSprings(physics.Params{M1: m1, M2: m2, K1: 1, K2: 1, C: 0.05})
				Expect(err).To(MatchError(dynamo.ErrInvalidParameters))
			},
			Entry("m1 = 0", 0.0, 1.0),
			Entry("m1 = -1", -1.0, 1.0),
			Entry("m2 = 0", 1.0, 0.0),
		)

		It("accepts unit masses", func() {
			_, err := physics.NewCoupledSprings(physics.Params{M1: 1, M2: 1, K1: 1, K2: 1, C: 0.05})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("the reference run", func() {
		It("reports one state per grid time, starting exactly at x0", func() {
			_, tr := integrate(physics.DefaultParams())
			Expect(tr.Len()).To(Equal(len(grid)))
			Expect(tr.Times()).To(Equal(grid))
			Expect(tr.At(0)).To(Equal(x0))
		})

		Context("without damping", func() {
			var (
				model *physics.CoupledSprings
				tr    *dynamo.Trajectory
			)

			BeforeEach(func() {
				p := physics.DefaultParams()
				p.C = 0
				model, tr = integrate(p)
			})

			It("keeps both displacements within [-2, 2]", func() {
				for _, j := range []int{physics.X1, physics.X2} {
					for _, v := range tr.Series(j) {
						Expect(v).To(BeNumerically(">=", -2))
						Expect(v).To(BeNumerically("<=", 2))
					}
				}
			})

			It("conserves energy", func() {
				drift := metrics.Evaluate(tr, metrics.NewEnergyDrift(model))["energy_drift"]
				Expect(drift).To(BeNumerically("<", 1e-6))
			})
		})

		Context("with damping", func() {
			var (
				model *physics.CoupledSprings
				tr    *dynamo.Trajectory
			)

			BeforeEach(func() {
				model, tr = integrate(physics.DefaultParams())
			})

			It("never gains energy between samples", func() {
				energy := metrics.EnergySeries(model, tr)
				for i := 1; i < len(energy); i++ {
					Expect(energy[i]).To(BeNumerically("<=", energy[i-1]+1e-8), "sample %d", i)
				}
			})

			It("loses amplitude between the first and last tenth of the run", func() {
				decay := metrics.NewDisplacementDecay(0.1)
				metrics.Evaluate(tr, decay)
				first, last := decay.Windows()
				Expect(last).To(BeNumerically("<", first))
			})
		})
	})

	Describe("sweeping a parameter", func() {
		var solver *sim.Solver

		BeforeEach(func() {
			var err error
			solver, err = sim.New(sim.DefaultOptions(), nil)
			Expect(err).NotTo(HaveOccurred())
			grid = dynamo.Linspace(0, 5, 100)
		})

		setK2 := func(p *physics.Params, v float64) { p.K2 = v }

		It("returns outcomes in run order", func() {
			runs := sim.ParamSweep(physics.DefaultParams(), setK2, 0, 2, 21, x0, grid)
			outcomes, err := solver.Sweep(context.Background(), runs, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(21))

			for i, o := range outcomes {
				Expect(o.Err).NotTo(HaveOccurred())
				Expect(o.Run.Params.K2).To(Equal(runs[i].Params.K2))

				single, err := solver.Simulate(runs[i].Params, x0, grid)
				Expect(err).NotTo(HaveOccurred())
				Expect(o.Trajectory.Final()).To(Equal(single.Final()))
			}
		})

		It("keeps going when one run fails", func() {
			setM1 := func(p *physics.Params, v float64) { p.M1 = v }
			runs := sim.ParamSweep(physics.DefaultParams(), setM1, 0, 2, 3, x0, grid)

			outcomes, err := solver.Sweep(context.Background(), runs, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Err).To(MatchError(dynamo.ErrInvalidParameters))
			Expect(outcomes[0].Trajectory).To(BeNil())
			Expect(outcomes[1].Err).NotTo(HaveOccurred())
			Expect(outcomes[2].Err).NotTo(HaveOccurred())
			Expect(math.IsNaN(outcomes[2].Trajectory.Final()[physics.X1])).To(BeFalse())
		})

		It("does not start runs after cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			runs := sim.ParamSweep(physics.DefaultParams(), setK2, 0, 2, 5, x0, grid)
			_, err := solver.Sweep(ctx, runs, 1)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
