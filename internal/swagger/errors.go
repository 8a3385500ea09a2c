package swagger

import (
	"errors"
	"fmt"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

var (
	// ErrMissingArgument is wrapped by errors for directives used without their required argument.
	ErrMissingArgument = errors.New("missing argument")
	// ErrSpecNotFound is wrapped by errors for specification references that do not exist on disk.
	ErrSpecNotFound = errors.New("specification not found")
)

func missingArgument(directive, what string, doc docpath.DocName, line int) error {
	return derrors.ValidationError(fmt.Sprintf("%s directive requires %s", directive, what)).
		WithCause(ErrMissingArgument).
		WithContext(logfields.KeyDocument, doc.String()).
		WithContext(logfields.KeyLine, line).
		Build()
}

func specNotFound(ref, source string, doc docpath.DocName, line int) error {
	return derrors.NotFoundError(fmt.Sprintf("file not found: %s", ref)).
		WithCause(ErrSpecNotFound).
		WithContext(logfields.KeyDocument, doc.String()).
		WithContext(logfields.KeyLine, line).
		WithContext(logfields.KeySource, source).
		Build()
}

func invalidDirective(msg string, doc docpath.DocName, line int) error {
	return derrors.ValidationError(msg).
		WithContext(logfields.KeyDocument, doc.String()).
		WithContext(logfields.KeyLine, line).
		Build()
}
