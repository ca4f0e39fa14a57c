package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shiptrack/backend/internal/domain/shared"
)

func fieldContext(name string) context.Context {
	return graphql.WithFieldContext(context.Background(), &graphql.FieldContext{
		Object: "Mutation",
		Field:  graphql.CollectedField{Field: &ast.Field{Name: name, Alias: name}},
	})
}

func TestErrorPresenter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	present := NewErrorPresenter(zap.New(core))
	ctx := fieldContext("createPackage")

	tests := []struct {
		name    string
		err     error
		code    string
		message string
		logged  bool
	}{
		{
			name:    "reference not found keeps message",
			err:     shared.ErrReferenceNotFound.WithMessage("customer_id 9 does not exist").Wrap(errors.New("FOREIGN KEY constraint failed")),
			code:    CodeReferenceNotFound,
			message: "customer_id 9 does not exist",
		},
		{
			name:    "constraint violation",
			err:     shared.ErrConstraintViolation.Wrap(errors.New("NOT NULL constraint failed")),
			code:    CodeConstraintViolation,
			message: shared.ErrConstraintViolation.Message,
		},
		{
			name:    "invalid input",
			err:     invalidArgument("limit", errors.New("string is not an int")),
			code:    CodeInvalidInput,
			message: "invalid value for argument limit",
		},
		{
			name:    "store unavailable hides detail",
			err:     shared.ErrStoreUnavailable.Wrap(context.DeadlineExceeded),
			code:    CodeStoreUnavailable,
			message: storeUnavailableMessage,
			logged:  true,
		},
		{
			name:    "unknown error hides detail",
			err:     errors.New("no such table: packages"),
			code:    CodeInternal,
			message: internalErrorMessage,
			logged:  true,
		},
		{
			name:    "unexpected domain code",
			err:     shared.ErrNotFound,
			code:    CodeInternal,
			message: internalErrorMessage,
			logged:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := logs.Len()

			got := present(ctx, tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, errorCode(got))
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, ast.Path{ast.PathName("createPackage")}, got.Path)
			assert.Equal(t, tt.logged, logs.Len() > before)
		})
	}

	t.Run("graphql errors pass through", func(t *testing.T) {
		in := gqlerror.Errorf("must not be null")
		got := present(ctx, in)
		assert.Same(t, in, got)
		assert.Equal(t, ast.Path{ast.PathName("createPackage")}, got.Path)
		assert.Empty(t, errorCode(got))
	})
}

func TestRecoverFunc(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	recoverFn := NewRecoverFunc(zap.New(core))

	err := recoverFn(fieldContext("createDevice"), "boom")

	var gqlErr *gqlerror.Error
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, internalErrorMessage, gqlErr.Message)
	assert.Equal(t, CodeInternal, errorCode(gqlErr))

	entries := logs.FilterMessage("Recovered from GraphQL resolver panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
}
