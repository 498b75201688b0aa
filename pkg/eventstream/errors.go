package eventstream

import "errors"

// ErrNilReviewEvent indicates a nil review event payload was provided to a publisher.
var ErrNilReviewEvent = errors.New("nil review event")
