package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/formcheck/pkg/schema"
)

// ErrInvalidPath matches any *PathError.
var ErrInvalidPath = errors.New("invalid path")

// PathError reports a path that does not exist in the schema. Path is the
// absolute path up to and including the segment that failed.
type PathError struct {
	Path    []string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", strings.Join(e.Path, "."), e.Reason)
}

func (e *PathError) Is(target error) bool { return target == ErrInvalidPath }

// ValidationError renders e in the shape of an ordinary validation error
// with code invalid_path.
func (e *PathError) ValidationError() schema.ValidationError {
	return schema.NewValidationError(e.Path, schema.CodeInvalidPath, e.Reason)
}
