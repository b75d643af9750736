package xlsexport

import (
	"testing"
	"time"
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportRequestList(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	reason := "wrong project"
	rejectedAt := start.Add(48 * time.Hour)
	list := []dbmodels.TimeTrackingRequest{
		{
			UserID:          "u1",
			User:            &dbmodels.SpaceUser{FirstName: "Ann", LastName: "Lee"},
			Title:           "Release prep",
			StartTime:       start,
			EndTime:         start.Add(90 * time.Minute),
			ApprovalStatus:  models.ApprovalStatusRejected,
			RejectedAt:      &rejectedAt,
			RejectionReason: &reason,
		},
		{
			UserID:         "u2",
			Title:          "On call",
			StartTime:      start,
			EndTime:        start.Add(2 * time.Hour),
			ApprovalStatus: models.ApprovalStatusPending,
		},
	}

	buf, err := NewInstance().ExportRequestList(list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Requests")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, requestHeaders, rows[0])
	require.Equal(t, "Ann Lee", rows[1][0])
	require.Equal(t, "1.5", rows[1][5])
	require.Equal(t, "Rejected", rows[1][6])
	require.Equal(t, "2026-03-04 09:00", rows[1][7])
	require.Equal(t, "wrong project", rows[1][8])
	require.Equal(t, "u2", rows[2][0])
	require.Equal(t, "Pending", rows[2][6])
}
