package interfaces

// EventPublisher delivers mutation events to downstream consumers. Publishing
// is best-effort: a failed publish is logged by the caller, never rolled back.
type EventPublisher interface {
	Publish(topic string, event any) error
}
