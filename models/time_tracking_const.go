package models

import (
	"strings"
	"time"
)

// CommentEditWindow is how long an author may change or remove own comment
const CommentEditWindow = 15 * time.Minute

const MaxRequestImages = 5

type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "PENDING"
	ApprovalStatusApproved  ApprovalStatus = "APPROVED"
	ApprovalStatusRejected  ApprovalStatus = "REJECTED"
	ApprovalStatusNeedsInfo ApprovalStatus = "NEEDS_INFO"
)

var ApprovalStatuses = []ApprovalStatus{
	ApprovalStatusPending,
	ApprovalStatusApproved,
	ApprovalStatusRejected,
	ApprovalStatusNeedsInfo,
}

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:   "Pending",
	ApprovalStatusApproved:  "Approved",
	ApprovalStatusRejected:  "Rejected",
	ApprovalStatusNeedsInfo: "Needs info",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsEditable reports whether the submitter may still change request content
func (s ApprovalStatus) IsEditable() bool {
	return s == ApprovalStatusPending || s == ApprovalStatusNeedsInfo
}

// AllowAction reports whether the action may be applied to a request in this status
func (s ApprovalStatus) AllowAction(action RequestAction) bool {
	return action.AllowedFrom() == s
}

type RequestAction string

const (
	ActionApprove   RequestAction = "approve"
	ActionReject    RequestAction = "reject"
	ActionNeedsInfo RequestAction = "needs_info"
	ActionResubmit  RequestAction = "resubmit"
)

func (a RequestAction) IsValid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionNeedsInfo, ActionResubmit:
		return true
	}
	return false
}

// IsDecision is true for actions taken by a reviewer rather than by the submitter
func (a RequestAction) IsDecision() bool {
	return a == ActionApprove || a == ActionReject || a == ActionNeedsInfo
}

func (a RequestAction) AllowedFrom() ApprovalStatus {
	if a == ActionResubmit {
		return ApprovalStatusNeedsInfo
	}
	return ApprovalStatusPending
}

func (a RequestAction) Target() ApprovalStatus {
	switch a {
	case ActionApprove:
		return ApprovalStatusApproved
	case ActionReject:
		return ApprovalStatusRejected
	case ActionNeedsInfo:
		return ApprovalStatusNeedsInfo
	case ActionResubmit:
		return ApprovalStatusPending
	}
	return ""
}

// StatusFilter is the status query parameter of the request list
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterPending   StatusFilter = "pending"
	StatusFilterApproved  StatusFilter = "approved"
	StatusFilterRejected  StatusFilter = "rejected"
	StatusFilterNeedsInfo StatusFilter = "needs_info"
)

func ParseStatusFilter(value string) (StatusFilter, bool) {
	filter := StatusFilter(strings.ToLower(strings.TrimSpace(value)))
	switch filter {
	case "":
		return StatusFilterAll, true
	case StatusFilterAll, StatusFilterPending, StatusFilterApproved, StatusFilterRejected, StatusFilterNeedsInfo:
		return filter, true
	}
	return "", false
}

// Status returns the matching approval status, empty for "all"
func (f StatusFilter) Status() ApprovalStatus {
	if f == StatusFilterAll || f == "" {
		return ""
	}
	return ApprovalStatus(strings.ToUpper(string(f)))
}

type ActivityAction string

const (
	ActivityCreated        ActivityAction = "CREATED"
	ActivityStatusChanged  ActivityAction = "STATUS_CHANGED"
	ActivityContentUpdated ActivityAction = "CONTENT_UPDATED"
	ActivityCommentAdded   ActivityAction = "COMMENT_ADDED"
	ActivityCommentUpdated ActivityAction = "COMMENT_UPDATED"
	ActivityCommentDeleted ActivityAction = "COMMENT_DELETED"
)
