package scan

import "fmt"

// Kind classifies a scan error.
type Kind int

const (
	// KindNotADirectory is reported when a probed path is not a directory.
	KindNotADirectory Kind = iota + 1
	// KindListFailed is reported when a directory cannot be opened or listed.
	KindListFailed
	// KindStatFailed is reported when a single entry cannot be stat'ed.
	KindStatFailed
	// KindRootNotFound is reported when the scan root cannot be resolved.
	KindRootNotFound
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotADirectory:
		return "not a directory"
	case KindListFailed:
		return "list failed"
	case KindStatFailed:
		return "stat failed"
	case KindRootNotFound:
		return "root not found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error carries the kind of failure, the path it happened on and the underlying cause.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
