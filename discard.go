package ttl

// discardSink drops every Event. Used for tests and for "discard://".
type discardSink struct{}

func (discardSink) Publish(Event) {}
