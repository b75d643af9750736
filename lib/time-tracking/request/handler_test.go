package ttrequesthandler

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
	"time-tracker-backend/db/dbtest"
	"time-tracker-backend/lib/cache"
	xlsexport "time-tracker-backend/lib/export/xls"
	spaceusersstore "time-tracker-backend/lib/space/users/store"
	ttactivityhandler "time-tracker-backend/lib/time-tracking/activity"
	ttrequeststore "time-tracker-backend/lib/time-tracking/request/store"
	ttthresholdhandler "time-tracker-backend/lib/time-tracking/threshold"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"
	ttapimodels "time-tracker-backend/models/api/timetracking"
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSpace = "ws-1"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) UploadFile(ctx context.Context, objectPath string, fileReader io.Reader, fileSize int64, contentType string) error {
	body, err := io.ReadAll(fileReader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[objectPath] = body
	return nil
}

func (m *memoryStorage) RemoveFiles(ctx context.Context, objectPaths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, objectPath := range objectPaths {
		delete(m.files, objectPath)
	}
	return nil
}

func (m *memoryStorage) GetSignedURL(ctx context.Context, objectPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[objectPath]; !ok {
		return "", errors.New("no such object")
	}
	return "https://files.test/" + objectPath + "?signature=x", nil
}

func (m *memoryStorage) MakeBucket(ctx context.Context) error {
	return nil
}

func (m *memoryStorage) has(objectPath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[objectPath]
	return ok
}

type testEnv struct {
	handler impl
	conn    *gorm.DB
	clock   *testClock
	storage *memoryStorage
}

func newTestEnv(t *testing.T, defaultThreshold *int) testEnv {
	conn := dbtest.Open(t)
	clock := &testClock{now: time.Date(2026, 5, 11, 12, 0, 0, 0, time.UTC)}
	storage := newMemoryStorage()
	users := spaceusersstore.NewInstance(conn)
	for _, user := range []dbmodels.SpaceUser{
		{BaseModel: dbmodels.BaseModel{ID: "submitter"}, SpaceID: testSpace, FirstName: "Sam", LastName: "Doe", Handle: "sam", Email: "sam@example.com", Role: models.MemberRole},
		{BaseModel: dbmodels.BaseModel{ID: "manager"}, SpaceID: testSpace, FirstName: "Max", LastName: "Boss", Handle: "max", Role: models.ManagerRole},
		{BaseModel: dbmodels.BaseModel{ID: "other"}, SpaceID: testSpace, FirstName: "Olga", Handle: "olga", Role: models.MemberRole},
	} {
		_, err := users.Save(user)
		require.NoError(t, err)
	}
	handler := impl{
		db:          conn,
		store:       ttrequeststore.NewInstance(conn),
		threshold:   ttthresholdhandler.NewInstance(conn, defaultThreshold),
		activity:    ttactivityhandler.NewHandlerWithTx(conn),
		fileStorage: storage,
		exporter:    xlsexport.NewInstance(),
		cache:       cache.NewInstance(time.Minute),
		now:         clock.Now,
		bannerLimit: 5,
	}
	return testEnv{handler: handler, conn: conn, clock: clock, storage: storage}
}

func days(n int) *int {
	return &n
}

func member(id string) models.Principal {
	return models.Principal{
		UserID:      id,
		SpaceID:     testSpace,
		Role:        models.MemberRole,
		Permissions: []models.Permission{models.ViewPermission, models.CreatePermission, models.EditPermission, models.CommentPermission},
	}
}

func manager(id string) models.Principal {
	p := member(id)
	p.Role = models.ManagerRole
	p.Permissions = append(p.Permissions, models.ManageTimeTrackingRequests)
	return p
}

func (e testEnv) createRequest(t *testing.T, principal models.Principal, title string, age time.Duration, images ...string) ttapimodels.RequestView {
	t.Helper()
	start := e.clock.Now().Add(-age)
	data := ttapimodels.RequestCreateData{
		RequestData: ttapimodels.RequestData{
			Title:     title,
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
		},
	}
	for _, name := range images {
		data.Images = append(data.Images, ttapimodels.ImageFile{
			FileName:    name,
			ContentType: "image/png",
			Size:        int64(len(name)),
			Content:     strings.NewReader(name),
		})
	}
	view, err := e.handler.Create(context.Background(), principal, data)
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	return view
}

func (e testEnv) activity(t *testing.T, requestID string) []ttapimodels.ActivityView {
	t.Helper()
	list, err := e.handler.Activity(manager("manager"), requestID, apimodels.Pagination{Limit: 100})
	require.NoError(t, err)
	return list.Data
}

func (e testEnv) storedRequest(t *testing.T, id string) dbmodels.TimeTrackingRequest {
	t.Helper()
	rec, err := e.handler.store.GetByID(testSpace, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return *rec
}

func countActions(list []ttapimodels.ActivityView, action models.ActivityAction) int {
	count := 0
	for _, item := range list {
		if item.ActionType == action {
			count++
		}
	}
	return count
}

func TestCreateAppliesThreshold(t *testing.T) {
	env := newTestEnv(t, days(2))

	fresh := env.createRequest(t, member("submitter"), "Fresh work", 25*time.Hour)
	require.Equal(t, models.ApprovalStatusPending, fresh.ApprovalStatus)
	require.Nil(t, fresh.ApprovedBy)
	require.Nil(t, fresh.ApprovedAt)

	old := env.createRequest(t, member("submitter"), "Old work", 48*time.Hour)
	require.Equal(t, models.ApprovalStatusApproved, old.ApprovalStatus)
	require.NotNil(t, old.ApprovedBy)
	require.Equal(t, "submitter", *old.ApprovedBy)
	require.NotNil(t, old.ApprovedAt)
	require.True(t, old.ApprovedAt.Equal(old.CreatedAt))
	require.True(t, env.storedRequest(t, old.ID).DecisionConsistent())

	entries := env.activity(t, old.ID)
	require.Len(t, entries, 1)
	require.Equal(t, models.ActivityCreated, entries[0].ActionType)
	require.Equal(t, "Sam Doe", entries[0].ActorDisplayName)
	require.Equal(t, "Old work", entries[0].Metadata["title"])
	require.Equal(t, true, entries[0].Metadata["auto_approved"])
}

func TestCreateWithNullThresholdApproves(t *testing.T) {
	env := newTestEnv(t, days(30))
	_, err := env.handler.threshold.Update(testSpace, "manager", ttapimodels.ThresholdData{Threshold: nil})
	require.NoError(t, err)

	view := env.createRequest(t, member("submitter"), "Anything", time.Hour)
	require.Equal(t, models.ApprovalStatusApproved, view.ApprovalStatus)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t, days(1))
	start := env.clock.Now()

	_, err := env.handler.Create(context.Background(), member("submitter"), ttapimodels.RequestCreateData{
		RequestData: ttapimodels.RequestData{Title: "   ", StartTime: start, EndTime: start.Add(time.Hour)},
	})
	require.True(t, models.IsKind(err, models.ErrKindValidation))

	_, err = env.handler.Create(context.Background(), member("submitter"), ttapimodels.RequestCreateData{
		RequestData: ttapimodels.RequestData{Title: "Backwards", StartTime: start, EndTime: start.Add(-time.Hour)},
	})
	require.True(t, models.IsKind(err, models.ErrKindValidation))

	images := make([]ttapimodels.ImageFile, models.MaxRequestImages+1)
	for n := range images {
		images[n] = ttapimodels.ImageFile{FileName: "a.png", ContentType: "image/png", Size: 1, Content: strings.NewReader("a")}
	}
	_, err = env.handler.Create(context.Background(), member("submitter"), ttapimodels.RequestCreateData{
		RequestData: ttapimodels.RequestData{Title: "Too many", StartTime: start, EndTime: start.Add(time.Hour)},
		Images:      images,
	})
	require.ErrorIs(t, err, models.ErrTooManyImages)

	list, err := env.handler.List(manager("manager"), ttapimodels.RequestFilter{})
	require.NoError(t, err)
	require.Zero(t, list.TotalCount)
}

// Scenario A: a reviewer approves a pending request
func TestApprove(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Support shift", time.Hour)

	view, err := env.handler.Transition(context.Background(), manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, view.ApprovalStatus)
	require.Equal(t, "manager", *view.ApprovedBy)
	require.True(t, env.storedRequest(t, created.ID).DecisionConsistent())

	entries := env.activity(t, created.ID)
	require.Len(t, entries, 2)
	require.Equal(t, models.ActivityStatusChanged, entries[0].ActionType)
	require.Equal(t, models.ApprovalStatusPending, *entries[0].PreviousStatus)
	require.Equal(t, models.ApprovalStatusApproved, *entries[0].NewStatus)
	require.Equal(t, "Max Boss", entries[0].ActorDisplayName)
	require.Equal(t, models.ActivityCreated, entries[1].ActionType)
}

// Scenario B: a reviewer rejects with a reason
func TestReject(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Conference", time.Hour)

	view, err := env.handler.Transition(context.Background(), manager("manager"), created.ID, ttapimodels.RequestActionData{
		Action:          models.ActionReject,
		RejectionReason: "  not a work event  ",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusRejected, view.ApprovalStatus)
	require.Equal(t, "not a work event", *view.RejectionReason)
	require.Nil(t, view.ApprovedBy)

	entries := env.activity(t, created.ID)
	require.Equal(t, "not a work event", *entries[0].FeedbackReason)
}

func TestTransitionGuards(t *testing.T) {
	env := newTestEnv(t, days(30))
	own := env.createRequest(t, member("manager"), "Own request", time.Hour)
	created := env.createRequest(t, member("submitter"), "Request", time.Hour)
	ctx := context.Background()

	_, err := env.handler.Transition(ctx, manager("manager"), own.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.ErrorIs(t, err, models.ErrSelfApproval)

	_, err = env.handler.Transition(ctx, member("other"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.ErrorIs(t, err, models.ErrNoManagePermission)

	_, err = env.handler.Transition(ctx, manager("manager"), "missing", ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.ErrorIs(t, err, models.ErrRequestNotFound)

	_, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: "close"})
	require.True(t, models.IsKind(err, models.ErrKindValidation))

	_, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionReject, RejectionReason: " \t\n"})
	require.True(t, models.IsKind(err, models.ErrKindValidation))

	_, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionNeedsInfo})
	require.True(t, models.IsKind(err, models.ErrKindValidation))

	// validation wins over authorization
	_, err = env.handler.Transition(ctx, member("other"), created.ID, ttapimodels.RequestActionData{Action: models.ActionReject})
	require.True(t, models.IsKind(err, models.ErrKindValidation))

	_, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionResubmit})
	require.ErrorIs(t, err, models.ErrNotRequestOwner)

	_, err = env.handler.Transition(ctx, member("submitter"), created.ID, ttapimodels.RequestActionData{Action: models.ActionResubmit})
	require.ErrorIs(t, err, models.ErrNotResubmittable)

	require.Equal(t, models.ApprovalStatusPending, env.storedRequest(t, created.ID).ApprovalStatus)
	require.Equal(t, models.ApprovalStatusPending, env.storedRequest(t, own.ID).ApprovalStatus)
	require.Zero(t, countActions(env.activity(t, created.ID), models.ActivityStatusChanged))
	require.Zero(t, countActions(env.activity(t, own.ID), models.ActivityStatusChanged))
}

func TestDoubleTransition(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Request", time.Hour)
	ctx := context.Background()

	_, err := env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)

	_, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionReject, RejectionReason: "late"})
	require.ErrorIs(t, err, models.ErrAlreadyProcessed)
	require.True(t, models.IsKind(err, models.ErrKindInvalidState))

	rec := env.storedRequest(t, created.ID)
	require.Equal(t, models.ApprovalStatusApproved, rec.ApprovalStatus)
	require.True(t, rec.DecisionConsistent())
	require.Equal(t, 1, countActions(env.activity(t, created.ID), models.ActivityStatusChanged))
}

func TestConcurrentDecisions(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Request", time.Hour)

	actions := []ttapimodels.RequestActionData{
		{Action: models.ActionApprove},
		{Action: models.ActionReject, RejectionReason: "no"},
		{Action: models.ActionNeedsInfo, NeedsInfoReason: "details?"},
	}
	errs := make([]error, len(actions))
	wg := sync.WaitGroup{}
	for n := range actions {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = env.handler.Transition(context.Background(), manager("manager"), created.ID, actions[n])
		}(n)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, models.ErrAlreadyProcessed)
	}
	require.Equal(t, 1, succeeded)
	require.True(t, env.storedRequest(t, created.ID).DecisionConsistent())
	require.Equal(t, 1, countActions(env.activity(t, created.ID), models.ActivityStatusChanged))
}

// Scenario C: more information is requested, the submitter edits and resubmits, then it is approved
func TestNeedsInfoAndResubmit(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Migration", time.Hour)
	ctx := context.Background()

	view, err := env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{
		Action:          models.ActionNeedsInfo,
		NeedsInfoReason: "which ticket?",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusNeedsInfo, view.ApprovalStatus)
	require.Equal(t, "manager", *view.NeedsInfoRequestedBy)
	require.Equal(t, "which ticket?", *view.NeedsInfoReason)
	env.clock.Advance(time.Minute)

	_, err = env.handler.Update(ctx, member("submitter"), created.ID, ttapimodels.RequestEditData{
		RequestData: ttapimodels.RequestData{
			Title:       "Migration",
			Description: "TICKET-42",
			StartTime:   created.StartTime,
			EndTime:     created.EndTime,
		},
	})
	require.NoError(t, err)
	env.clock.Advance(time.Minute)

	view, err = env.handler.Transition(ctx, member("submitter"), created.ID, ttapimodels.RequestActionData{Action: models.ActionResubmit})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, view.ApprovalStatus)
	require.Nil(t, view.NeedsInfoRequestedBy)
	require.Nil(t, view.NeedsInfoRequestedAt)
	require.Nil(t, view.NeedsInfoReason)
	require.True(t, env.storedRequest(t, created.ID).DecisionConsistent())
	env.clock.Advance(time.Minute)

	view, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, view.ApprovalStatus)

	entries := env.activity(t, created.ID)
	require.Len(t, entries, 5)
	expected := []models.ActivityAction{
		models.ActivityStatusChanged,
		models.ActivityStatusChanged,
		models.ActivityContentUpdated,
		models.ActivityStatusChanged,
		models.ActivityCreated,
	}
	for n, action := range expected {
		require.Equal(t, action, entries[n].ActionType)
	}
	require.Equal(t, models.ApprovalStatusNeedsInfo, *entries[1].PreviousStatus)
	require.Equal(t, models.ApprovalStatusPending, *entries[1].NewStatus)
	require.Equal(t, dbmodels.FieldChange{Old: "", New: "TICKET-42"}, entries[2].ChangedFields["description"])
}

func TestContentEdit(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Draft", time.Hour)
	ctx := context.Background()
	edit := ttapimodels.RequestEditData{
		RequestData: ttapimodels.RequestData{
			Title:     "Final",
			StartTime: created.StartTime,
			EndTime:   created.EndTime.Add(30 * time.Minute),
		},
	}

	_, err := env.handler.Update(ctx, member("other"), created.ID, edit)
	require.ErrorIs(t, err, models.ErrNotRequestOwner)

	view, err := env.handler.Update(ctx, member("submitter"), created.ID, edit)
	require.NoError(t, err)
	require.Equal(t, "Final", view.Title)
	env.clock.Advance(time.Minute)

	entries := env.activity(t, created.ID)
	require.Len(t, entries, 2)
	require.Equal(t, models.ActivityContentUpdated, entries[0].ActionType)
	require.Equal(t, []string{"end_time", "title"}, entries[0].ChangedFields.Names())
	require.Equal(t, dbmodels.FieldChange{Old: "Draft", New: "Final"}, entries[0].ChangedFields["title"])

	// nothing changed, nothing logged
	_, err = env.handler.Update(ctx, member("submitter"), created.ID, edit)
	require.NoError(t, err)
	require.Len(t, env.activity(t, created.ID), 2)

	_, err = env.handler.Transition(ctx, manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)
	edit.Title = "Too late"
	_, err = env.handler.Update(ctx, member("submitter"), created.ID, edit)
	require.ErrorIs(t, err, models.ErrRequestNotEditable)
	require.Equal(t, "Final", env.storedRequest(t, created.ID).Title)
}

func TestContentEditImages(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Screens", time.Hour, "one.png", "two.png")
	require.Len(t, created.Images, 2)
	require.Len(t, created.ImageURLs, 2)
	for _, image := range created.Images {
		require.True(t, env.storage.has(image))
	}

	view, err := env.handler.Update(context.Background(), member("submitter"), created.ID, ttapimodels.RequestEditData{
		RequestData: ttapimodels.RequestData{
			Title:     created.Title,
			StartTime: created.StartTime,
			EndTime:   created.EndTime,
		},
		RemovedImages: []string{created.Images[0], "not-mine.png"},
		NewImages: []ttapimodels.ImageFile{
			{FileName: "three.PNG", ContentType: "image/png", Size: 5, Content: bytes.NewReader([]byte("three"))},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.Images, 2)
	require.Equal(t, created.Images[1], view.Images[0])
	require.True(t, strings.HasSuffix(view.Images[1], ".png"))
	require.False(t, env.storage.has(created.Images[0]))
	require.True(t, env.storage.has(view.Images[1]))

	entries := env.activity(t, created.ID)
	require.Equal(t, []string{"images"}, entries[0].ChangedFields.Names())
}

// gatedStorage holds the upload of one payload until released
type gatedStorage struct {
	*memoryStorage
	gate    string
	reached chan struct{}
	release chan struct{}
}

func (g *gatedStorage) UploadFile(ctx context.Context, objectPath string, fileReader io.Reader, fileSize int64, contentType string) error {
	body, err := io.ReadAll(fileReader)
	if err != nil {
		return err
	}
	if string(body) == g.gate {
		close(g.reached)
		<-g.release
	}
	return g.memoryStorage.UploadFile(ctx, objectPath, bytes.NewReader(body), fileSize, contentType)
}

func imageEdit(created ttapimodels.RequestView, content string) ttapimodels.RequestEditData {
	return ttapimodels.RequestEditData{
		RequestData: ttapimodels.RequestData{
			Title:     created.Title,
			StartTime: created.StartTime,
			EndTime:   created.EndTime,
		},
		NewImages: []ttapimodels.ImageFile{
			{FileName: content + ".png", ContentType: "image/png", Size: int64(len(content)), Content: strings.NewReader(content)},
		},
	}
}

func TestOverlappingContentEditsKeepBothImages(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Screens", time.Hour)
	storage := &gatedStorage{
		memoryStorage: env.storage,
		gate:          "slow",
		reached:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	env.handler.fileStorage = storage

	slowDone := make(chan error, 1)
	go func() {
		_, err := env.handler.Update(context.Background(), member("submitter"), created.ID, imageEdit(created, "slow"))
		slowDone <- err
	}()
	<-storage.reached
	_, err := env.handler.Update(context.Background(), member("submitter"), created.ID, imageEdit(created, "fast"))
	require.NoError(t, err)
	close(storage.release)
	require.NoError(t, <-slowDone)

	stored := env.storedRequest(t, created.ID)
	require.Len(t, stored.ImagePaths(), 2)
	for _, image := range stored.ImagePaths() {
		require.True(t, env.storage.has(image))
	}

	var growth [][2]int
	for _, entry := range env.activity(t, created.ID) {
		if entry.ActionType != models.ActivityContentUpdated {
			continue
		}
		change := entry.ChangedFields["images"]
		growth = append(growth, [2]int{reflect.ValueOf(change.Old).Len(), reflect.ValueOf(change.New).Len()})
	}
	require.ElementsMatch(t, [][2]int{{0, 1}, {1, 2}}, growth)
}

func TestContentEditStaleVersion(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Versioned", time.Hour)
	rec := env.storedRequest(t, created.ID)

	store := ttrequeststore.NewInstance(env.conn)
	updated, err := store.UpdateContent(testSpace, created.ID, editableStatuses, rec.ContentVersion, map[string]interface{}{"title": "first"})
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = store.UpdateContent(testSpace, created.ID, editableStatuses, rec.ContentVersion, map[string]interface{}{"title": "second"})
	require.NoError(t, err)
	require.False(t, updated)

	stored := env.storedRequest(t, created.ID)
	require.Equal(t, "first", stored.Title)
	require.Equal(t, rec.ContentVersion+1, stored.ContentVersion)
}

func TestContentEditChecksOwnerBeforeImageCount(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Full", time.Hour, "1.png", "2.png", "3.png", "4.png", "5.png")
	require.Len(t, created.Images, models.MaxRequestImages)

	_, err := env.handler.Update(context.Background(), member("other"), created.ID, imageEdit(created, "extra"))
	require.ErrorIs(t, err, models.ErrNotRequestOwner)

	_, err = env.handler.Update(context.Background(), member("submitter"), created.ID, imageEdit(created, "extra"))
	require.ErrorIs(t, err, models.ErrTooManyImages)
}

func TestGetByIDAccess(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Private", time.Hour)
	ctx := context.Background()

	_, err := env.handler.GetByID(ctx, member("other"), created.ID)
	require.ErrorIs(t, err, models.ErrAccessDenied)

	_, err = env.handler.GetByID(ctx, member("submitter"), "missing")
	require.ErrorIs(t, err, models.ErrRequestNotFound)

	other := member("submitter")
	other.SpaceID = "ws-2"
	_, err = env.handler.GetByID(ctx, other, created.ID)
	require.ErrorIs(t, err, models.ErrRequestNotFound)

	view, err := env.handler.GetByID(ctx, manager("manager"), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Sam Doe", view.User.DisplayName)
}

func TestListVisibilityAndFilters(t *testing.T) {
	env := newTestEnv(t, days(30))
	first := env.createRequest(t, member("submitter"), "First", time.Hour)
	env.createRequest(t, member("submitter"), "Second", time.Hour)
	env.createRequest(t, member("other"), "Other", time.Hour)
	_, err := env.handler.Transition(context.Background(), manager("manager"), first.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)

	all, err := env.handler.List(manager("manager"), ttapimodels.RequestFilter{Status: models.StatusFilterAll, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, all.TotalCount)
	require.Equal(t, 2, all.TotalPages)
	require.Len(t, all.Requests, 2)
	require.Equal(t, "Other", all.Requests[0].Title)

	approved, err := env.handler.List(manager("manager"), ttapimodels.RequestFilter{Status: models.StatusFilterApproved})
	require.NoError(t, err)
	require.EqualValues(t, 1, approved.TotalCount)
	require.Equal(t, first.ID, approved.Requests[0].ID)

	byUser, err := env.handler.List(manager("manager"), ttapimodels.RequestFilter{UserID: "other"})
	require.NoError(t, err)
	require.EqualValues(t, 1, byUser.TotalCount)

	// members only ever see their own requests
	own, err := env.handler.List(member("submitter"), ttapimodels.RequestFilter{UserID: "other"})
	require.NoError(t, err)
	require.EqualValues(t, 2, own.TotalCount)
	for _, item := range own.Requests {
		require.Equal(t, "submitter", item.UserID)
	}

	beyond, err := env.handler.List(manager("manager"), ttapimodels.RequestFilter{Page: 5})
	require.NoError(t, err)
	require.EqualValues(t, 3, beyond.TotalCount)
	require.Empty(t, beyond.Requests)
}

func TestListCacheIsInvalidatedByWrites(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Cached", time.Hour)
	filter := ttapimodels.RequestFilter{Status: models.StatusFilterPending}

	pending, err := env.handler.List(manager("manager"), filter)
	require.NoError(t, err)
	require.EqualValues(t, 1, pending.TotalCount)

	_, err = env.handler.Transition(context.Background(), manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)

	pending, err = env.handler.List(manager("manager"), filter)
	require.NoError(t, err)
	require.Zero(t, pending.TotalCount)
}

// heldStore pauses the first count query until released
type heldStore struct {
	ttrequeststore.Provider
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (s *heldStore) ListCount(spaceID string, filter ttrequeststore.Filter) (int64, error) {
	count, err := s.Provider.ListCount(spaceID, filter)
	s.once.Do(func() {
		close(s.reached)
		<-s.release
	})
	return count, err
}

func TestListReadRacingAWriteIsNotCached(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "Racing", time.Hour)
	held := &heldStore{
		Provider: env.handler.store,
		reached:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	env.handler.store = held
	filter := ttapimodels.RequestFilter{Status: models.StatusFilterPending}

	listDone := make(chan error, 1)
	go func() {
		_, err := env.handler.List(manager("manager"), filter)
		listDone <- err
	}()
	<-held.reached
	_, err := env.handler.Transition(context.Background(), manager("manager"), created.ID, ttapimodels.RequestActionData{Action: models.ActionApprove})
	require.NoError(t, err)
	close(held.release)
	require.NoError(t, <-listDone)

	pending, err := env.handler.List(manager("manager"), filter)
	require.NoError(t, err)
	require.Zero(t, pending.TotalCount)
}

func TestPendingBanner(t *testing.T) {
	env := newTestEnv(t, days(30))
	var last ttapimodels.RequestView
	for n := 0; n < 6; n++ {
		last = env.createRequest(t, member("submitter"), "Pending", time.Hour)
	}
	env.createRequest(t, member("other"), "Someone else", time.Hour)
	_, err := env.handler.Transition(context.Background(), manager("manager"), last.ID, ttapimodels.RequestActionData{
		Action:          models.ActionNeedsInfo,
		NeedsInfoReason: "why?",
	})
	require.NoError(t, err)

	banner, err := env.handler.Pending(member("submitter"))
	require.NoError(t, err)
	require.Len(t, banner.Requests, 5)
	require.True(t, banner.HasMore)
	require.EqualValues(t, 6, banner.TotalCount)
	require.Equal(t, last.ID, banner.Requests[0].ID)
	require.Equal(t, models.ApprovalStatusNeedsInfo, banner.Requests[0].ApprovalStatus)

	banner, err = env.handler.Pending(member("other"))
	require.NoError(t, err)
	require.Len(t, banner.Requests, 1)
	require.False(t, banner.HasMore)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t, days(30))
	first := env.createRequest(t, member("submitter"), "First", time.Hour)
	env.createRequest(t, member("submitter"), "Second", time.Hour)
	env.createRequest(t, member("other"), "Other", time.Hour)
	_, err := env.handler.Transition(context.Background(), manager("manager"), first.ID, ttapimodels.RequestActionData{
		Action:          models.ActionReject,
		RejectionReason: "duplicate",
	})
	require.NoError(t, err)

	summary, err := env.handler.Summary(manager("manager"))
	require.NoError(t, err)
	require.Equal(t, ttapimodels.SummaryView{Pending: 2, Rejected: 1, Total: 3}, summary)

	summary, err = env.handler.Summary(member("other"))
	require.NoError(t, err)
	require.Equal(t, ttapimodels.SummaryView{Pending: 1, Total: 1}, summary)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, days(30))
	env.createRequest(t, member("submitter"), "Exported", time.Hour)

	buf, err := env.handler.Export(manager("manager"), ttapimodels.RequestFilter{})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())
}

func TestActivityPagination(t *testing.T) {
	env := newTestEnv(t, days(30))
	created := env.createRequest(t, member("submitter"), "v0", time.Hour)
	for n := 1; n <= 4; n++ {
		_, err := env.handler.Update(context.Background(), member("submitter"), created.ID, ttapimodels.RequestEditData{
			RequestData: ttapimodels.RequestData{
				Title:     "v" + string(rune('0'+n)),
				StartTime: created.StartTime,
				EndTime:   created.EndTime,
			},
		})
		require.NoError(t, err)
		env.clock.Advance(time.Minute)
	}

	page, err := env.handler.Activity(member("submitter"), created.ID, apimodels.Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 5, page.Total)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 2, page.Limit)
	require.Len(t, page.Data, 2)
	require.Equal(t, dbmodels.FieldChange{Old: "v1", New: "v2"}, page.Data[0].ChangedFields["title"])

	_, err = env.handler.Activity(member("other"), created.ID, apimodels.Pagination{})
	require.ErrorIs(t, err, models.ErrAccessDenied)
}
