package scheduler

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the task scheduler. Domain modules add their own tasks.
var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(RegisterSchedulerLifecycle),
)

// RegisterSchedulerLifecycle starts the scheduler with the app. Tasks are
// registered by fx.Invoke calls that run before OnStart hooks.
func RegisterSchedulerLifecycle(lc fx.Lifecycle, scheduler *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
