package assessment

// Kind classifies engine errors so the API layer can map them to a status
// code without string matching.
type Kind int

const (
	// KindNotFound covers both entities that do not exist and entities the
	// caller is not allowed to see. Conflating the two keeps resource
	// existence unguessable.
	KindNotFound Kind = iota
	KindForbidden
	KindNotEditable
	KindNotSubmittable
	KindIncompleteSubmission
	KindBadRequest
)

// Error is a domain error with a machine-readable kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func notFound(msg string) *Error       { return &Error{Kind: KindNotFound, Msg: msg} }
func forbidden(msg string) *Error      { return &Error{Kind: KindForbidden, Msg: msg} }
func notEditable(msg string) *Error    { return &Error{Kind: KindNotEditable, Msg: msg} }
func notSubmittable(msg string) *Error { return &Error{Kind: KindNotSubmittable, Msg: msg} }
func incomplete(msg string) *Error     { return &Error{Kind: KindIncompleteSubmission, Msg: msg} }
func badRequest(msg string) *Error     { return &Error{Kind: KindBadRequest, Msg: msg} }
