package models

import (
	"github.com/pkg/errors"
)

type ErrorKind string

const (
	ErrKindValidation   ErrorKind = "validation"
	ErrKindForbidden    ErrorKind = "forbidden"
	ErrKindInvalidState ErrorKind = "invalid_state"
	ErrKindNotFound     ErrorKind = "not_found"
	ErrKindUpstream     ErrorKind = "upstream"
)

// WorkflowError carries a message safe to show to the user as is
type WorkflowError struct {
	Kind    ErrorKind
	Message string
}

func (e *WorkflowError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return newWorkflowError(ErrKindValidation, format, args...)
}

func NewForbiddenError(format string, args ...interface{}) error {
	return newWorkflowError(ErrKindForbidden, format, args...)
}

func NewInvalidStateError(format string, args ...interface{}) error {
	return newWorkflowError(ErrKindInvalidState, format, args...)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newWorkflowError(ErrKindNotFound, format, args...)
}

func newWorkflowError(kind ErrorKind, format string, args ...interface{}) error {
	return &WorkflowError{
		Kind:    kind,
		Message: errors.Errorf(format, args...).Error(),
	}
}

// KindOf returns ErrKindUpstream for anything that is not a WorkflowError
func KindOf(err error) ErrorKind {
	var wErr *WorkflowError
	if errors.As(err, &wErr) {
		return wErr.Kind
	}
	return ErrKindUpstream
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrRequestNotFound    = NewNotFoundError("request not found")
	ErrCommentNotFound    = NewNotFoundError("comment not found")
	ErrAlreadyProcessed   = NewInvalidStateError("request has already been processed")
	ErrSelfApproval       = NewForbiddenError("you cannot review your own request")
	ErrNoManagePermission = NewForbiddenError("you do not have permission to review time tracking requests")
	ErrNotRequestOwner    = NewForbiddenError("only the submitter can perform this action")
	ErrNotCommentAuthor   = NewForbiddenError("only the author can change this comment")
	ErrCommentEditExpired = NewInvalidStateError("comments can only be changed within 15 minutes of posting")
	ErrRequestLocked      = NewInvalidStateError("request is being processed, try again")
	ErrRequestNotEditable = NewInvalidStateError("request can only be edited while pending or waiting for information")
	ErrNotResubmittable   = NewInvalidStateError("only requests waiting for information can be resubmitted")
	ErrAccessDenied       = NewForbiddenError("you do not have access to this request")
	ErrTooManyImages      = NewValidationError("a request can have at most %d images", MaxRequestImages)
)
