package ttrequesthandler

import (
	"fmt"
	"strings"
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"
)

var decisionSubject = map[models.RequestAction]string{
	models.ActionApprove:   "Your time tracking request was approved",
	models.ActionReject:    "Your time tracking request was rejected",
	models.ActionNeedsInfo: "More information is needed for your time tracking request",
}

// notifyDecision mails the submitter after commit, failures are only logged
func (i impl) notifyDecision(rec dbmodels.TimeTrackingRequest, action models.RequestAction, reason string) {
	logger := i.getLogger(rec.SpaceID, rec.ID).
		WithField("action", action)
	if i.mailer == nil || !i.mailer.IsConfigured() {
		return
	}
	if rec.User == nil || rec.User.Email == "" {
		logger.Warn("submitter has no email, decision notification skipped")
		return
	}
	subject, ok := decisionSubject[action]
	if !ok {
		return
	}
	err := i.mailer.SendEMail(rec.User.Email, subject, decisionMessage(rec, action, reason, i.appLink))
	if err != nil {
		logger.WithError(err).Error("failed to send decision notification")
	}
}

func decisionMessage(rec dbmodels.TimeTrackingRequest, action models.RequestAction, reason, appLink string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Request: %s\n", rec.Title))
	sb.WriteString(fmt.Sprintf("Period: %s - %s\n", rec.StartTime.UTC().Format("2006-01-02 15:04"), rec.EndTime.UTC().Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Status: %s\n", action.Target().ToHuman()))
	if reason != "" {
		sb.WriteString(fmt.Sprintf("Feedback: %s\n", reason))
	}
	if appLink != "" {
		sb.WriteString(fmt.Sprintf("\n%s/%s/time-tracker/requests?id=%s\n", strings.TrimRight(appLink, "/"), rec.SpaceID, rec.ID))
	}
	return sb.String()
}
