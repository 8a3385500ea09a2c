package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("basic creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "swaggerdoc.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "swaggerdoc.yaml", file)
		assert.Equal(t, "[config:fatal] invalid configuration (file=swaggerdoc.yaml)", err.Error())
	})

	t.Run("detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", ConfigError("test error").Build())

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.True(t, HasSeverity(err, SeverityFatal))
		assert.Equal(t, CategoryConfig, GetCategory(err))

		classified, ok := AsClassified(err)
		require.True(t, ok)
		assert.False(t, classified.CanRetry())
		assert.True(t, classified.IsFatal())
	})

	t.Run("plain errors fall back", func(t *testing.T) {
		err := stderrors.New("plain")
		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := BuildError("render failed").Build()
		derived := base.WithContext("document", "index")

		_, ok := base.Context().Get("document")
		assert.False(t, ok)
		doc, ok := derived.Context().GetString("document")
		require.True(t, ok)
		assert.Equal(t, "index", doc)
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("fluent API", func(t *testing.T) {
		sentinel := stderrors.New("original error")
		err := WrapError(sentinel, CategoryNetwork, "download failed").
			Warning().
			Retryable().
			WithContext("url", "https://example.com/bundle.js").
			WithContext("attempt", 3).
			Build()

		assert.Equal(t, CategoryNetwork, err.Category())
		assert.Equal(t, SeverityWarning, err.Severity())
		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		assert.True(t, stderrors.Is(err, sentinel))
		assert.True(t, err.CanRetry())

		attempt, ok := err.Context().GetInt("attempt")
		require.True(t, ok)
		assert.Equal(t, 3, attempt)
	})

	t.Run("convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityFatal, RetryUserAction},
			{"NetworkError", NetworkError("test"), CategoryNetwork, SeverityError, RetryBackoff},
			{"BuildError", BuildError("test"), CategoryBuild, SeverityFatal, RetryNever},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("key1", "value1")
	ctx = ctx.Set("shared", "original")

	other := ErrorContext{"key2": "value2", "shared": "overridden"}
	merged := ctx.Merge(other)

	v1, _ := merged.GetString("key1")
	v2, _ := merged.GetString("key2")
	shared, _ := merged.GetString("shared")
	assert.Equal(t, "value1", v1)
	assert.Equal(t, "value2", v2)
	assert.Equal(t, "overridden", shared)

	orig, _ := ctx.GetString("shared")
	assert.Equal(t, "original", orig)

	_, ok := ctx.Get("nonexistent")
	assert.False(t, ok)
}
