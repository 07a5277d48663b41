package stable_diffusion_api

import "fmt"

type ErrorKind int

const (
	Unreachable ErrorKind = iota
	InvalidResponse
	NoImageProduced
)

func (k ErrorKind) String() string {
	switch k {
	case Unreachable:
		return "Could not connect to txt2img API"
	case InvalidResponse:
		return "Could not parse txt2img response"
	case NoImageProduced:
		return "txt2img did not produce an image"
	default:
		return fmt.Sprintf("unknown generation error (%d)", int(k))
	}
}

// GenerationError is returned by every failing call to the web UI.
// Error() only carries the user facing message, the cause is kept for logging.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

var (
	ErrUnreachable     = &GenerationError{Kind: Unreachable}
	ErrInvalidResponse = &GenerationError{Kind: InvalidResponse}
	ErrNoImageProduced = &GenerationError{Kind: NoImageProduced}
)

func (e *GenerationError) Error() string { return e.Kind.String() }

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches any *GenerationError of the same Kind, so errors.Is(err, ErrUnreachable) works with wrapped causes.
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	return ok && t.Kind == e.Kind
}

func generationError(kind ErrorKind, err error) error {
	return &GenerationError{Kind: kind, Err: err}
}
