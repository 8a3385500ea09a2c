// Package errors provides the classified error type used across swaggerdoc.
//
// A ClassifiedError carries a category (config, not_found, build, ...), a
// severity, a retry hint and a context map. Directive failures put the
// document and line into the context so the rendered message points the
// author at the offending block:
//
//	err := errors.NotFoundError("specification file not found").
//		WithCause(swagger.ErrSpecNotFound).
//		WithContext("document", "subdir/page").
//		WithContext("line", 12).
//		Build()
//
// CLIErrorAdapter turns classified errors into exit codes and stderr text.
package errors
