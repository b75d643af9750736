package apiv1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time-tracker-backend/config"
	"time-tracker-backend/lib/rbac"
	ttcommenthandler "time-tracker-backend/lib/time-tracking/comment"
	ttrequesthandler "time-tracker-backend/lib/time-tracking/request"
	ttthresholdhandler "time-tracker-backend/lib/time-tracking/threshold"
	authutils "time-tracker-backend/lib/utils/auth-utils"
	"time-tracker-backend/models"
	ttapimodels "time-tracker-backend/models/api/timetracking"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	testSpace  = "ws-1"
	apiPrefix  = "/api/v1/workspaces/" + testSpace + "/time-tracking"
	testSecret = "test-secret"
)

type fakeRequests struct {
	ttrequesthandler.Provider
	principal  models.Principal
	filter     ttapimodels.RequestFilter
	createData ttapimodels.RequestCreateData
	action     ttapimodels.RequestActionData
	err        error
}

func (f *fakeRequests) List(principal models.Principal, filter ttapimodels.RequestFilter) (ttapimodels.RequestListView, error) {
	f.principal = principal
	f.filter = filter
	return ttapimodels.RequestListView{Requests: []ttapimodels.RequestView{}, TotalCount: 0}, f.err
}

func (f *fakeRequests) Transition(_ context.Context, principal models.Principal, id string, data ttapimodels.RequestActionData) (ttapimodels.RequestView, error) {
	f.principal = principal
	f.action = data
	if f.err != nil {
		return ttapimodels.RequestView{}, f.err
	}
	return ttapimodels.RequestView{ID: id, ApprovalStatus: data.Action.Target()}, nil
}

func (f *fakeRequests) Create(_ context.Context, principal models.Principal, data ttapimodels.RequestCreateData) (ttapimodels.RequestView, error) {
	f.principal = principal
	f.createData = data
	for _, image := range data.Images {
		if _, err := io.ReadAll(image.Content); err != nil {
			return ttapimodels.RequestView{}, err
		}
	}
	return ttapimodels.RequestView{ID: "req-1", Title: data.Title, ApprovalStatus: models.ApprovalStatusPending}, f.err
}

type fakeComments struct {
	ttcommenthandler.Provider
	err error
}

func (f *fakeComments) Delete(models.Principal, string, string) error {
	return f.err
}

type fakeThreshold struct {
	ttthresholdhandler.Provider
	updated bool
}

func (f *fakeThreshold) Update(spaceID, userID string, data ttapimodels.ThresholdData) (ttapimodels.ThresholdView, error) {
	f.updated = true
	return ttapimodels.ThresholdView{Threshold: data.Threshold}, nil
}

type testEnv struct {
	app       *fiber.App
	requests  *fakeRequests
	comments  *fakeComments
	threshold *fakeThreshold
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = testSecret
	conf.Auth.JWTExpireInSec = 3600
	conf.S3.ImageMaxSizeMb = 1
	config.Conf = conf
	rbac.NewHandler()

	env := &testEnv{
		requests:  &fakeRequests{},
		comments:  &fakeComments{},
		threshold: &fakeThreshold{},
	}
	ttrequesthandler.Instance = env.requests
	ttcommenthandler.Instance = env.comments
	ttthresholdhandler.Instance = env.threshold

	app := fiber.New()
	apiV1 := fiber.New()
	app.Mount("/api/v1", apiV1)
	InitWorkspaceRouters(apiV1)
	env.app = app
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request, userID, spaceID string, role models.UserRole) (int, map[string]interface{}) {
	t.Helper()
	if userID != "" {
		token, err := authutils.GetToken(userID, "Test User", spaceID, role)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	payload := map[string]interface{}{}
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &payload), string(body))
	}
	return resp.StatusCode, payload
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestWorkspaceAccess(t *testing.T) {
	env := newTestEnv(t)

	t.Run(`token required`, func(t *testing.T) {
		status, body := env.do(t, httptest.NewRequest(fiber.MethodGet, apiPrefix+"/requests", nil), "", "", "")
		require.Equal(t, fiber.StatusUnauthorized, status)
		require.NotEmpty(t, body["error"])
	})

	t.Run(`other workspace`, func(t *testing.T) {
		status, body := env.do(t, httptest.NewRequest(fiber.MethodGet, apiPrefix+"/requests", nil), "u-1", "ws-2", models.AdminRole)
		require.Equal(t, fiber.StatusForbidden, status)
		require.NotEmpty(t, body["error"])
	})

	t.Run(`member cannot change threshold`, func(t *testing.T) {
		status, body := env.do(t, jsonRequest(fiber.MethodPut, apiPrefix+"/threshold", map[string]interface{}{"threshold": 3}), "u-1", testSpace, models.MemberRole)
		require.Equal(t, fiber.StatusForbidden, status)
		require.Equal(t, "RBAC_FORBIDDEN", body["error"])
		require.False(t, env.threshold.updated)
	})

	t.Run(`manager changes threshold`, func(t *testing.T) {
		status, body := env.do(t, jsonRequest(fiber.MethodPut, apiPrefix+"/threshold", map[string]interface{}{"threshold": 3}), "u-2", testSpace, models.ManagerRole)
		require.Equal(t, fiber.StatusOK, status)
		require.EqualValues(t, 3, body["threshold"])
		require.True(t, env.threshold.updated)
	})

	t.Run(`negative threshold`, func(t *testing.T) {
		status, _ := env.do(t, jsonRequest(fiber.MethodPut, apiPrefix+"/threshold", map[string]interface{}{"threshold": -1}), "u-2", testSpace, models.ManagerRole)
		require.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run(`members api is admin only`, func(t *testing.T) {
		status, _ := env.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/workspaces/"+testSpace+"/members", nil), "u-2", testSpace, models.ManagerRole)
		require.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run(`permission map of the caller`, func(t *testing.T) {
		status, body := env.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/workspaces/"+testSpace+"/permissions", nil), "u-1", testSpace, models.MemberRole)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, string(models.MemberRole), body["role"])
		permissions, ok := body["permissions"].(map[string]interface{})
		require.True(t, ok)
		require.Contains(t, permissions, string(models.TimeTrackingModule))
		require.NotContains(t, permissions, string(models.MembersModule))
		require.NotContains(t, permissions[string(models.TimeTrackingModule)], string(models.ManageTimeTrackingRequests))
	})
}

func TestRequestList(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, httptest.NewRequest(fiber.MethodGet, apiPrefix+"/requests?status=NEEDS_INFO&userId=u-9&page=2&limit=5", nil), "u-2", testSpace, models.ManagerRole)
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, body, "requests")
	require.Contains(t, body, "totalCount")
	require.Contains(t, body, "totalPages")
	require.Equal(t, models.StatusFilterNeedsInfo, env.requests.filter.Status)
	require.Equal(t, "u-9", env.requests.filter.UserID)
	require.Equal(t, 2, env.requests.filter.Page)
	require.Equal(t, 5, env.requests.filter.Limit)
	require.Equal(t, "u-2", env.requests.principal.UserID)
	require.Equal(t, testSpace, env.requests.principal.SpaceID)
	require.True(t, env.requests.principal.CanManageRequests())

	status, body = env.do(t, httptest.NewRequest(fiber.MethodGet, apiPrefix+"/requests?status=archived", nil), "u-1", testSpace, models.MemberRole)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotEmpty(t, body["error"])

	status, _ = env.do(t, httptest.NewRequest(fiber.MethodGet, apiPrefix+"/requests", nil), "u-1", testSpace, models.MemberRole)
	require.Equal(t, fiber.StatusOK, status)
	require.False(t, env.requests.principal.CanManageRequests())
	require.Equal(t, models.StatusFilterAll, env.requests.filter.Status)
}

func TestRequestTransition(t *testing.T) {
	env := newTestEnv(t)
	target := apiPrefix + "/requests/req-1"

	status, body := env.do(t, jsonRequest(fiber.MethodPatch, target, map[string]string{"action": "reject", "rejection_reason": "duplicate"}), "u-2", testSpace, models.ManagerRole)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, string(models.ApprovalStatusRejected), body["approval_status"])
	require.Equal(t, "duplicate", env.requests.action.RejectionReason)

	cases := []struct {
		err    error
		status int
	}{
		{models.ErrSelfApproval, fiber.StatusForbidden},
		{models.ErrAlreadyProcessed, fiber.StatusConflict},
		{models.ErrRequestNotFound, fiber.StatusNotFound},
		{models.NewValidationError("rejection reason is required"), fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		env.requests.err = tc.err
		status, body = env.do(t, jsonRequest(fiber.MethodPatch, target, map[string]string{"action": "approve"}), "u-2", testSpace, models.ManagerRole)
		require.Equal(t, tc.status, status)
		require.Equal(t, tc.err.Error(), body["error"])
	}
}

func TestRequestCreateMultipart(t *testing.T) {
	env := newTestEnv(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "  Forgot to clock in  "))
	require.NoError(t, writer.WriteField("startTime", "2026-03-02T09:00:00Z"))
	require.NoError(t, writer.WriteField("endTime", "2026-03-02T17:00:00Z"))
	require.NoError(t, writer.WriteField("taskId", "task-7"))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="images"; filename="screen.png"`)
	header.Set(fiber.HeaderContentType, "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, apiPrefix+"/requests", body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	status, resp := env.do(t, req, "u-1", testSpace, models.MemberRole)
	require.Equal(t, fiber.StatusOK, status, resp)
	require.Equal(t, "req-1", resp["id"])
	require.Equal(t, "Forgot to clock in", env.requests.createData.Title)
	require.Equal(t, "task-7", env.requests.createData.TaskID)
	require.Len(t, env.requests.createData.Images, 1)
	require.Equal(t, "screen.png", env.requests.createData.Images[0].FileName)
	require.Equal(t, "image/png", env.requests.createData.Images[0].ContentType)
	require.Equal(t, "u-1", env.requests.principal.UserID)
}

func TestRequestCreateRejectsBadTimes(t *testing.T) {
	env := newTestEnv(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Overtime"))
	require.NoError(t, writer.WriteField("startTime", "yesterday"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, apiPrefix+"/requests", body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	status, resp := env.do(t, req, "u-1", testSpace, models.MemberRole)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "invalid start time", resp["error"])
}

func TestCommentDeleteExpired(t *testing.T) {
	env := newTestEnv(t)
	env.comments.err = models.ErrCommentEditExpired

	status, body := env.do(t, httptest.NewRequest(fiber.MethodDelete, apiPrefix+"/requests/req-1/comments/c-1", nil), "u-1", testSpace, models.MemberRole)
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, models.ErrCommentEditExpired.Error(), body["error"])

	env.comments.err = nil
	status, body = env.do(t, httptest.NewRequest(fiber.MethodDelete, apiPrefix+"/requests/req-1/comments/c-1", nil), "u-1", testSpace, models.MemberRole)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "comment deleted", body["message"])
}
