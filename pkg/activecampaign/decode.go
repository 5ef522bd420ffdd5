package activecampaign

import (
	"encoding/json"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
)

// envelope is implemented by the pointer of every *Response type.
type envelope[T any] interface {
	*T
	fail(msg string, statusCode *int, kind types.Kind)
}

// Decode builds the envelope T from a Request outcome. Known keys populate
// fields, unknown keys are ignored and absent keys leave fields unset. Errors,
// whether returned by Request or carried in the result, land in T's error
// field instead of failing the call. The failure's
// Kind is kept for ErrorKind.
func Decode[T any, P envelope[T]](res Result, err error) T {
	var out T
	if err != nil {
		var code *int
		if sc := types.StatusCodeOf(err); sc != 0 {
			code = &sc
		}
		P(&out).fail(err.Error(), code, types.KindOf(err))
		return out
	}
	if res.Err != nil {
		P(&out).fail(res.Err.Message, res.Err.StatusCode, types.KindTransport)
		return out
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		var zero T
		out = zero
		P(&out).fail(types.ErrMapping("unexpected response shape", err).Error(), nil, types.KindMapping)
	}
	return out
}
