package ports

import "context"

// Well-known routes the state containers navigate to after transitions.
const (
	RouteHome   = "/home"
	RouteOrders = "/orders"
	RouteLogin  = "/login"
)

// Navigator is the routing surface supplied by the embedding application.
// Navigate receives an opaque route path; no result is expected.
type Navigator interface {
	Navigate(route string)
}

// Alerter presents a blocking confirmation dialog and reports the choice.
type Alerter interface {
	Confirm(ctx context.Context, title, message string) bool
}

// ImagePicker opens the device image picker and returns a local file
// reference. The reference is stored verbatim; content and size are not
// inspected.
type ImagePicker interface {
	PickImage(ctx context.Context) (string, error)
}
