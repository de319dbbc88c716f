package outlookbatch

const (
	WorkflowName = "outlook_batch"
	ActivityRun  = "outlook_batch_run"

	// CronWorkflowID is the stable ID for the scheduled nightly run.
	CronWorkflowID = "outlook_batch_cron"
)

type RunInput struct {
	// Date is the target outlook date in "2006-01-02" form. Empty means
	// "today in UTC" as resolved by the activity.
	Date  string `json:"date,omitempty"`
	Force bool   `json:"force,omitempty"`
}

type RunResult struct {
	Date          string   `json:"date"`
	Succeeded     int      `json:"succeeded"`
	Failed        int      `json:"failed"`
	FailedUserIDs []string `json:"failed_user_ids,omitempty"`
}
