package pkgrouter

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

// GetParam returns the named path parameter matched for the current request,
// or "" when the route has none.
func GetParam(ctx context.Context, name string) string {
	return httprouter.ParamsFromContext(ctx).ByName(name)
}
