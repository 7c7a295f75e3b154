package renderer

import "fmt"

// FaultKind classifies why a session stopped.
type FaultKind int

const (
	// FaultInit covers device, swap chain, pipeline and resource creation.
	FaultInit FaultKind = iota

	// FaultAsset covers mesh loading: unreadable files, decode errors and malformed faces.
	FaultAsset

	// FaultFrame covers recording, submission and presentation of a frame.
	FaultFrame

	// FaultSync covers fence signaling and waiting.
	FaultSync
)

func (k FaultKind) String() string {
	switch k {
	case FaultInit:
		return "init"
	case FaultAsset:
		return "asset"
	case FaultFrame:
		return "frame"
	case FaultSync:
		return "sync"
	}
	return fmt.Sprintf("FaultKind(%d)", int(k))
}

// Fault is the error every Renderer method returns. None of them are recoverable; the session ends.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s fault during %s: %v", f.Kind, f.Op, f.Err)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (f *Fault) Unwrap() error {
	return f.Err
}

// Cause returns the underlying error for github.com/pkg/errors.Cause.
func (f *Fault) Cause() error {
	return f.Err
}

func fault(kind FaultKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Op: op, Err: err}
}
