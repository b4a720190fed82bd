package config

// CronJob pairs a schedule with a job function.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. The built-in jobs self-register
// via cron.Register from the cron/jobs package; add entries here only for
// jobs that must be configurable without code registration.
var CronJobs = map[string]CronJob{}
