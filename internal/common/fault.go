package common

import "fmt"

// Fault is a classified failure returned by services. Kind is one of the
// taxonomy sentinels, Subject names the offending value (a recipe name, an
// id, an email) and Cause keeps the underlying error for logs.
//
// errors.Is matches both Kind and anything in the Cause chain.
type Fault struct {
	Kind    error
	Subject string
	Cause   error
}

// NewFault builds a Fault of the given kind.
func NewFault(kind error, subject string, cause error) *Fault {
	return &Fault{Kind: kind, Subject: subject, Cause: cause}
}

func (f *Fault) Error() string {
	msg := f.Kind.Error()
	if f.Subject != "" {
		msg = fmt.Sprintf("%s: %q", msg, f.Subject)
	}
	if f.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, f.Cause)
	}
	return msg
}

func (f *Fault) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Cause}
}
