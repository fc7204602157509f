package puzzle

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/numreach/internal/engine"
)

//go:embed schema.cue
var schemaSource string

// Validation error codes (E200-E209)
const (
	ErrSchema        = "E200" // request does not satisfy #Puzzle
	ErrCountMismatch = "E201" // numbers count differs from the mode
	ErrInvalidMode   = "E202" // mode is not 0, 4 or 5
)

// Mode is the number of inputs a puzzle must have. ModeAny skips the
// count check.
type Mode int

const (
	ModeAny  Mode = 0
	ModeFour Mode = 4
	ModeFive Mode = 5
)

// ValidationError represents one failed check.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// schema is compiled once. A cue.Context is not safe for concurrent use,
// so every use of it happens under mu.
type schema struct {
	mu     sync.Mutex
	ctx    *cue.Context
	puzzle cue.Value
}

var (
	schemaOnce sync.Once
	compiled   *schema
	schemaErr  error
)

func loadSchema() (*schema, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling puzzle schema: %w", err)
			return
		}
		compiled = &schema{ctx: ctx, puzzle: v.LookupPath(cue.ParsePath("#Puzzle"))}
	})
	return compiled, schemaErr
}

// Validate checks req against the puzzle schema and, unless mode is
// ModeAny, that it has exactly mode numbers. All failures are returned;
// an empty slice means the request is valid.
func Validate(req engine.Request, mode Mode) []ValidationError {
	var errs []ValidationError

	if mode != ModeAny && mode != ModeFour && mode != ModeFive {
		errs = append(errs, ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("unsupported mode %d (want 4 or 5)", mode),
			Code:    ErrInvalidMode,
		})
	} else if mode != ModeAny && len(req.Numbers) != int(mode) {
		errs = append(errs, ValidationError{
			Field:   "numbers",
			Message: fmt.Sprintf("got %d numbers, mode needs %d", len(req.Numbers), mode),
			Code:    ErrCountMismatch,
		})
	}

	s, err := loadSchema()
	if err != nil {
		return append(errs, ValidationError{Field: "schema", Message: err.Error(), Code: ErrSchema})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.puzzle.Unify(s.ctx.Encode(req))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		errs = append(errs, schemaErrors(err)...)
	}
	return errs
}

// check unifies an already built puzzle value with the schema and decodes
// it. Callers hold s.mu.
func (s *schema) check(v cue.Value) (engine.Request, error) {
	var req engine.Request
	u := s.puzzle.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return req, err
	}
	if err := u.Decode(&req); err != nil {
		return req, fmt.Errorf("decoding puzzle: %w", err)
	}
	return req, nil
}
