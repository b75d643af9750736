package xlsexport

import (
	"bytes"
	"time"
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportRequestList(list []dbmodels.TimeTrackingRequest) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

var requestHeaders = []string{"Submitter", "Title", "Description", "Start", "End", "Duration (h)", "Status", "Reviewed at", "Feedback", "Submitted at"}

func (i impl) ExportRequestList(list []dbmodels.TimeTrackingRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, requestHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		_, err = writeRequestData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	if err = f.SetSheetName(sheet, "Requests"); err != nil {
		return nil, errors.Wrap(err, "failed to name xlsx sheet")
	}
	return f.WriteToBuffer()
}

func writeRequestData(f *excelize.File, sheet string, list []dbmodels.TimeTrackingRequest, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(requestHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			submitterName(item),
			item.Title,
			item.Description,
			item.StartTime.Format(dateTimeLayout),
			item.EndTime.Format(dateTimeLayout),
			roundHours(item.EndTime.Sub(item.StartTime)),
			item.ApprovalStatus.ToHuman(),
			reviewedAt(item),
			feedback(item),
			item.CreatedAt.Format(dateTimeLayout),
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func submitterName(item dbmodels.TimeTrackingRequest) string {
	if item.User == nil {
		return item.UserID
	}
	return item.User.ToSnapshot().DisplayName
}

func roundHours(d time.Duration) float64 {
	return float64(d.Round(time.Minute)/time.Minute) / 60
}

func reviewedAt(item dbmodels.TimeTrackingRequest) string {
	var at *time.Time
	switch {
	case item.ApprovedAt != nil:
		at = item.ApprovedAt
	case item.RejectedAt != nil:
		at = item.RejectedAt
	case item.NeedsInfoRequestedAt != nil:
		at = item.NeedsInfoRequestedAt
	}
	if at == nil {
		return ""
	}
	return at.Format(dateTimeLayout)
}

func feedback(item dbmodels.TimeTrackingRequest) string {
	if item.RejectionReason != nil {
		return *item.RejectionReason
	}
	if item.NeedsInfoReason != nil {
		return *item.NeedsInfoReason
	}
	return ""
}
