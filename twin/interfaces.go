package twin

import "context"

// ActionSubmitter forwards an action request into the twin engine's
// processing pipeline. Submission is fire-and-forget: a nil error means the
// request was handed over to the engine, not that the action completed.
type ActionSubmitter interface {
	SubmitAction(ctx context.Context, actionKey string, payload []byte) error
}
