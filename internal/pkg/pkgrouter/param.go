package pkgrouter

import (
	"context"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// GetParam returns the named path parameter of the matched route.
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}

// GetParamInt parses the named path parameter as a base-10 int.
func GetParamInt(ctx context.Context, key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(GetParam(ctx, key)))
}
