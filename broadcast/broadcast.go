// broadcast/broadcast.go
package broadcast

// Sender is the minimal send surface of a connected client. Defined here so
// game code does not depend on the session package.
type Sender interface {
	Send(v any) error
}

// BestEffort delivers v to every target independently. A failed or closed
// target never stops delivery to the rest; the error is dropped at the send
// site and the caller gets no signal.
func BestEffort(v any, targets ...Sender) {
	for _, t := range targets {
		if t == nil {
			continue
		}
		_ = t.Send(v)
	}
}
