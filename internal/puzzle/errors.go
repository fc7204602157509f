package puzzle

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// schemaErrors flattens a CUE validation error into one ValidationError
// per underlying failure.
func schemaErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "puzzle"
		}
		out = append(out, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchema,
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "puzzle", Message: err.Error(), Code: ErrSchema})
	}
	return out
}

// LoadError reports a puzzle file that could not be loaded. Pos is
// "file:line:col" when CUE provided a position.
type LoadError struct {
	Path    string
	Pos     string
	Message string
}

func (e *LoadError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func cueLoadError(path string, err error) *LoadError {
	le := &LoadError{Path: path, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		if pos := errs[0].Position(); pos.IsValid() {
			le.Pos = fmt.Sprintf("%s:%d:%d", pos.Filename(), pos.Line(), pos.Column())
		}
	}
	return le
}
