// Package monty simulates the three-door game show puzzle at high volume.
//
// The engine trades statistical rigor for throughput. The contestant always
// picks door 0 first, and the host always opens the first door (in order
// 0, 1, 2) that is neither the prize nor the contestant's pick. Neither
// choice affects which strategy wins more often.
//
// Usage:
//
//	tally, err := monty.RunParallel(ctx, 1_000_000_000)
//	if err != nil {
//	    return err
//	}
//	switched, stayed, err := tally.WinRates()
//
// Run plays on the calling goroutine with a caller-owned source:
//
//	tally := monty.Run(1_000_000, rng.NewXorShift(0))
package monty
