package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIPath is the prefix for all JSON endpoints.
	APIPath = "/api"

	// AdminPath is the prefix for the authenticated admin endpoints.
	AdminPath = APIPath + "/admin"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25

	// MaxPageSize callers may request.
	MaxPageSize = 100
)
