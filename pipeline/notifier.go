package pipeline

//go:generate mockgen -source=notifier.go -destination=mocks/notifier.go -package=mocks

import "github.com/epiwatch/epiwatch-api/schema"

// Notifier pushes newly created alerts to an external channel. Delivery
// is best-effort: the pipeline logs failures and moves on, since the
// alert document is already persisted.
type Notifier interface {
	EnqueueAlert(alert schema.Alert) error
}
