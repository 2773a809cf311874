package eventbus

import "errors"

// ErrNoTopic is returned when a message has neither a publish topic nor a
// topic metadata entry.
var ErrNoTopic = errors.New("message has no topic")
