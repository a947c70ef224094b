package providers

import "errors"

// ErrAuthTokenIsRequired is returned by Lookup when a provider needs a
// credential that was never configured. The engine treats it like any
// other provider failure: the source simply contributes nothing.
var ErrAuthTokenIsRequired = errors.New("auth token is required")
