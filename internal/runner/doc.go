// Package runner is the load-generation engine: it turns an arrival
// schedule into real-time request issues and collects one outcome per
// request.
//
// # Components
//
//   - dispatcher: walks the schedule on a dedicated OS thread, sleeping the
//     bulk of each inter-arrival gap and spinning the final sub-millisecond
//     stretch, so tick timing is precise even under heavy request I/O. When
//     it falls behind the schedule by more than the slack budget in
//     open-loop mode, it aborts the run with a [ScheduleViolation].
//   - [TokenPool]: the closed-loop admission gate. A fixed pool of tokens
//     models virtual users; acquisition suspends while all are in flight,
//     letting offered load degrade gracefully against a saturated target.
//     A nil pool is the open-loop no-op.
//   - [Runner]: ties the two together. Every tick acquires a token (if any
//     pool is set) and spawns one [Executor] call; the executor reports on
//     the bounded outcome channel that the aggregator drains.
//
// # Usage
//
//	r := runner.New(runner.Options{
//		Schedule: schedule.Constant(10*time.Second, 500),
//		Executor: exec,
//	})
//	out := make(chan metrics.Outcome, 100)
//	go agg.Run(out)
//	result := r.Run(ctx, out)
//
// Run closes out after the last outcome, so the aggregator's Run returns
// exactly when all results are in.
package runner
