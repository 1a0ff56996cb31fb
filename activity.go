package params

import "github.com/goliatone/go-params/pkg/activity"

// WithActivityHooks registers hooks notified after every successful write
// (set, append, remove, clear, sort) and every layer folded by Stack.Merge.
// Hook failures are logged and never undo the write.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(cfg *config) {
		cfg.activityHooks = append(cfg.activityHooks, activity.CloneHooks(activity.Hooks(hooks))...)
	}
}
