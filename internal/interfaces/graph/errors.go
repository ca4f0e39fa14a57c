package graph

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/infrastructure/logger"
)

// Error codes reported in extensions.code
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeReferenceNotFound   = "REFERENCE_NOT_FOUND"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

const (
	storeUnavailableMessage = "data store is unavailable"
	internalErrorMessage    = "internal server error"
)

// NewErrorPresenter maps resolver errors onto GraphQL errors. Domain errors
// keep their message and code. Infrastructure failures and unknown errors
// get a generic message; their detail only reaches the log.
func NewErrorPresenter(zapLogger *zap.Logger) graphql.ErrorPresenterFunc {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return func(ctx context.Context, err error) *gqlerror.Error {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return presentDomainError(ctx, zapLogger, domainErr, err)
		}

		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) && gqlErr.Err == nil {
			if gqlErr.Path == nil {
				gqlErr.Path = graphql.GetPath(ctx)
			}
			return gqlErr
		}

		log(ctx, zapLogger).Error("Unhandled GraphQL resolver error",
			zap.String("path", graphql.GetPath(ctx).String()),
			zap.Error(err),
		)
		return newError(ctx, internalErrorMessage, CodeInternal)
	}
}

func presentDomainError(ctx context.Context, zapLogger *zap.Logger, domainErr *shared.DomainError, err error) *gqlerror.Error {
	switch domainErr.Code {
	case shared.ErrReferenceNotFound.Code:
		return newError(ctx, domainErr.Message, CodeReferenceNotFound)
	case shared.ErrConstraintViolation.Code:
		return newError(ctx, domainErr.Message, CodeConstraintViolation)
	case shared.ErrInvalidInput.Code:
		return newError(ctx, domainErr.Message, CodeInvalidInput)
	case shared.ErrStoreUnavailable.Code:
		log(ctx, zapLogger).Error("Data store unavailable",
			zap.String("path", graphql.GetPath(ctx).String()),
			zap.Error(err),
		)
		return newError(ctx, storeUnavailableMessage, CodeStoreUnavailable)
	default:
		log(ctx, zapLogger).Error("Unexpected domain error",
			zap.String("code", domainErr.Code),
			zap.String("path", graphql.GetPath(ctx).String()),
			zap.Error(err),
		)
		return newError(ctx, internalErrorMessage, CodeInternal)
	}
}

// NewRecoverFunc reports resolver panics as internal errors
func NewRecoverFunc(zapLogger *zap.Logger) graphql.RecoverFunc {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return func(ctx context.Context, p any) error {
		log(ctx, zapLogger).Error("Recovered from GraphQL resolver panic",
			zap.String("panic", fmt.Sprint(p)),
			zap.ByteString("stack", debug.Stack()),
		)
		return newError(ctx, internalErrorMessage, CodeInternal)
	}
}

func newError(ctx context.Context, message, code string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Path:       graphql.GetPath(ctx),
		Extensions: map[string]interface{}{"code": code},
	}
}

func log(ctx context.Context, zapLogger *zap.Logger) *logger.ContextLogger {
	if _, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return logger.L(ctx)
	}
	return logger.L(logger.WithContext(ctx, zapLogger))
}

// errorCode returns the extensions.code of a presented error
func errorCode(err *gqlerror.Error) string {
	if err == nil || err.Extensions == nil {
		return ""
	}
	code, _ := err.Extensions["code"].(string)
	return code
}
