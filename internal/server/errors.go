package server

import (
	"context"
	"errors"
	"time"
	"hytale-list/internal/domain"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const NextEligibleAtHeader = "Next-Eligible-At"

var errInternal = errors.New("internal error")

// toConnectError maps domain failures to connect codes. Anything that is not a
// domain error is logged and hidden behind CodeInternal.
func toConnectError(ctx context.Context, procedure string, err error) error {
	logger := zerolog.Ctx(ctx).With().Str("procedure", procedure).Logger()

	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("request failed")
		return connect.NewError(connect.CodeInternal, errInternal)
	}

	code := connect.CodeInternal
	switch de.Kind {
	case domain.KindValidation:
		code = connect.CodeInvalidArgument
	case domain.KindNotFound:
		code = connect.CodeNotFound
	case domain.KindUnauthorized:
		code = connect.CodePermissionDenied
		if de.Unauthenticated {
			code = connect.CodeUnauthenticated
		}
	case domain.KindConflict:
		code = connect.CodeAlreadyExists
	case domain.KindExternal:
		code = connect.CodeUnavailable
		logger.Warn().Err(errors.Unwrap(de)).Msg(de.Message)
	}

	cerr := connect.NewError(code, errors.New(de.Message))
	if de.NextEligibleAt != nil {
		cerr.Meta().Set(NextEligibleAtHeader, de.NextEligibleAt.UTC().Format(time.RFC3339))
	}
	return cerr
}
