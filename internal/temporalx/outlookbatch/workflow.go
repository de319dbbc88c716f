package outlookbatch

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one daily regeneration pass. It is started on a cron
// schedule, so each invocation handles exactly one date; the heavy lifting
// is a single activity that fans out across users internally.
func Workflow(ctx workflow.Context, in RunInput) (RunResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    30 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Minute,
			MaximumAttempts:    3,
		},
	})

	var out RunResult
	if err := workflow.ExecuteActivity(ctx, ActivityRun, in).Get(ctx, &out); err != nil {
		return out, err
	}
	return out, nil
}
