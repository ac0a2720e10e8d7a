package cli

import "errors"

var (
	// ErrSelfUpdateDisabled is returned by self-update when it is turned off in the config.
	ErrSelfUpdateDisabled = errors.New("self-update is disabled in the configuration")

	// ErrReported wraps errors whose message was already shown to the user.
	ErrReported = errors.New("already reported")
)
