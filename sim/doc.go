// Package sim provides the discrete-event simulation kernel for
// caresim: contention for scarce, reusable resources in a multi-stage
// care pipeline.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - simulator.go: the virtual clock and the serial event loop
//   - process.go: cooperative processes and their suspension points
//   - resource.go: capacity-limited pools with FIFO-fair grants
//   - allof.go: the conjunctive ("all of these pools") wait
//   - unit.go: the care workflow driving patients through their plans
//
// # Model
//
// Scheduling is single-threaded and cooperative. "Parallelism" among
// patients is simulated interleaving: exactly one continuation executes
// at a time, and a process yields control only at a timeout wait, a
// single-resource wait, or a conjunctive wait. Resumption always passes
// through the event queue, which dispatches by (timestamp, insertion
// order), so a fixed SimulationKey and fixed configuration reproduce a
// run exactly.
//
// Pool exhaustion and long waits are normal outcomes, represented as
// wait-state transitions; the only error conditions are invalid
// durations, invalid releases, and inconsistent configuration.
package sim
