package ttrequesthandler

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"
	"time-tracker-backend/config"
	"time-tracker-backend/db"
	"time-tracker-backend/lib/cache"
	xlsexport "time-tracker-backend/lib/export/xls"
	filestorage "time-tracker-backend/lib/file-storage"
	"time-tracker-backend/lib/metrics"
	"time-tracker-backend/lib/smtp"
	ttactivityhandler "time-tracker-backend/lib/time-tracking/activity"
	ttrequeststore "time-tracker-backend/lib/time-tracking/request/store"
	ttthresholdhandler "time-tracker-backend/lib/time-tracking/threshold"
	initchecker "time-tracker-backend/lib/utils/init-checker"
	"time-tracker-backend/lib/utils/lock"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"
	ttapimodels "time-tracker-backend/models/api/timetracking"
	dbmodels "time-tracker-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, principal models.Principal, data ttapimodels.RequestCreateData) (ttapimodels.RequestView, error)
	GetByID(ctx context.Context, principal models.Principal, id string) (ttapimodels.RequestView, error)
	Update(ctx context.Context, principal models.Principal, id string, data ttapimodels.RequestEditData) (ttapimodels.RequestView, error)
	Transition(ctx context.Context, principal models.Principal, id string, data ttapimodels.RequestActionData) (ttapimodels.RequestView, error)
	List(principal models.Principal, filter ttapimodels.RequestFilter) (ttapimodels.RequestListView, error)
	Pending(principal models.Principal) (ttapimodels.BannerView, error)
	Summary(principal models.Principal) (ttapimodels.SummaryView, error)
	Export(principal models.Principal, filter ttapimodels.RequestFilter) (*bytes.Buffer, error)
	Activity(principal models.Principal, id string, pagination apimodels.Pagination) (ttapimodels.ActivityListView, error)
	// CheckAccess loads a request the principal may see, used by the comment thread
	CheckAccess(principal models.Principal, id string) (*dbmodels.TimeTrackingRequest, error)
}

var Instance Provider

const (
	lockWait       = 5 * time.Second
	exportMaxRows  = 10000
	lockPrefix     = "tt-request"
	imageDirectory = "time-tracking"
)

var editableStatuses = []models.ApprovalStatus{models.ApprovalStatusPending, models.ApprovalStatusNeedsInfo}

func NewHandler() {
	instance := impl{
		db:          db.DB,
		store:       ttrequeststore.NewInstance(db.DB),
		threshold:   ttthresholdhandler.Instance,
		activity:    ttactivityhandler.Instance,
		fileStorage: filestorage.Instance,
		mailer:      smtp.Instance,
		exporter:    xlsexport.Instance,
		cache:       cache.Instance,
		now:         time.Now,
		bannerLimit: config.Conf.TimeTracking.BannerLimit,
		appLink:     config.Conf.Smtp.AppLink,
	}
	initchecker.CheckInit(
		"threshold", instance.threshold,
		"activity", instance.activity,
		"fileStorage", instance.fileStorage,
		"mailer", instance.mailer,
		"exporter", instance.exporter,
		"cache", instance.cache,
	)
	Instance = instance
}

type impl struct {
	db          *gorm.DB
	store       ttrequeststore.Provider
	threshold   ttthresholdhandler.Provider
	activity    ttactivityhandler.Provider
	fileStorage filestorage.Provider
	mailer      smtp.Provider
	exporter    xlsexport.Provider
	cache       cache.Provider
	now         func() time.Time
	bannerLimit int
	appLink     string
}

func (i impl) getLogger(spaceID, id string) *log.Entry {
	logger := log.WithField("space_id", spaceID)
	if id != "" {
		logger = logger.WithField("rec_id", id)
	}
	return logger
}

func (i impl) invalidate(spaceID string) {
	i.cache.Invalidate(spaceID)
}

func (i impl) Create(ctx context.Context, principal models.Principal, data ttapimodels.RequestCreateData) (ttapimodels.RequestView, error) {
	logger := i.getLogger(principal.SpaceID, "").
		WithField("user_id", principal.UserID)
	if err := data.Validate(); err != nil {
		return ttapimodels.RequestView{}, err
	}
	threshold, err := i.threshold.Resolve(principal.SpaceID)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	now := i.now()
	autoApprove := ttthresholdhandler.ShouldAutoApprove(threshold, data.StartTime, now)

	id := uuid.NewString()
	logger = logger.WithField("rec_id", id)
	images, err := i.uploadImages(ctx, principal.SpaceID, id, data.Images)
	if err != nil {
		logger.WithError(err).Error("failed to upload request images")
		return ttapimodels.RequestView{}, errors.New("failed to upload request images")
	}

	rec := dbmodels.TimeTrackingRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{
				ID:        id,
				CreatedAt: now,
				UpdatedAt: now,
			},
			SpaceID: principal.SpaceID,
		},
		UserID:         principal.UserID,
		Title:          data.Title,
		Description:    data.Description,
		StartTime:      data.StartTime,
		EndTime:        data.EndTime,
		Images:         datatypes.JSONSlice[string](images),
		ApprovalStatus: models.ApprovalStatusPending,
	}
	if data.TaskID != "" {
		rec.TaskID = &data.TaskID
	}
	if data.CategoryID != "" {
		rec.CategoryID = &data.CategoryID
	}
	if autoApprove {
		// the system approves on the submitter's behalf
		rec.ApprovalStatus = models.ApprovalStatusApproved
		rec.ApprovedBy = &principal.UserID
		rec.ApprovedAt = &now
	}

	err = i.db.Transaction(func(tx *gorm.DB) error {
		_, err := ttrequeststore.NewInstance(tx).Create(rec)
		if err != nil {
			logger.WithError(err).Error("failed to create time tracking request")
			return errors.New("failed to create time tracking request")
		}
		return ttactivityhandler.NewHandlerWithTx(tx).Record(ttactivityhandler.Entry{
			SpaceID:   principal.SpaceID,
			RequestID: id,
			Action:    models.ActivityCreated,
			ActorID:   principal.UserID,
			NewStatus: rec.ApprovalStatus,
			Metadata: map[string]interface{}{
				"title":         rec.Title,
				"auto_approved": autoApprove,
			},
			At: now,
		})
	})
	if err != nil {
		i.removeImages(ctx, images)
		return ttapimodels.RequestView{}, err
	}
	i.invalidate(principal.SpaceID)
	metrics.RecordRequestCreated(string(rec.ApprovalStatus))
	logger.
		WithField("status", rec.ApprovalStatus).
		Info("time tracking request created")
	return i.view(ctx, principal.SpaceID, id)
}

func (i impl) GetByID(ctx context.Context, principal models.Principal, id string) (ttapimodels.RequestView, error) {
	rec, err := i.CheckAccess(principal, id)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	return i.detailView(ctx, *rec), nil
}

func (i impl) CheckAccess(principal models.Principal, id string) (*dbmodels.TimeTrackingRequest, error) {
	rec, err := i.getRec(principal.SpaceID, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanView(rec.UserID) {
		return nil, models.ErrAccessDenied
	}
	return rec, nil
}

func (i impl) Transition(ctx context.Context, principal models.Principal, id string, data ttapimodels.RequestActionData) (view ttapimodels.RequestView, err error) {
	logger := i.getLogger(principal.SpaceID, id).
		WithField("user_id", principal.UserID).
		WithField("action", data.Action)
	defer func() {
		action, outcome := string(data.Action), "ok"
		if !data.Action.IsValid() {
			action = "invalid"
		}
		if err != nil {
			outcome = string(models.KindOf(err))
		}
		metrics.RecordTransition(action, outcome)
	}()

	rec, err := i.getRec(principal.SpaceID, id)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	if err = data.Validate(); err != nil {
		return ttapimodels.RequestView{}, err
	}
	if err = checkTransitionActor(principal, *rec, data.Action); err != nil {
		return ttapimodels.RequestView{}, err
	}
	if err = checkTransitionState(rec.ApprovalStatus, data.Action); err != nil {
		return ttapimodels.RequestView{}, err
	}

	reason := data.Reason()
	now := i.now()
	locked, err := lock.WithDelay(ctx, lock.Key(lockPrefix, id), lockWait, func() error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			updated, err := ttrequeststore.NewInstance(tx).UpdateIfStatus(principal.SpaceID, id,
				[]models.ApprovalStatus{data.Action.AllowedFrom()},
				transitionUpdate(data.Action, principal.UserID, reason, now))
			if err != nil {
				logger.WithError(err).Error("failed to update request status")
				return errors.New("failed to update request status")
			}
			if !updated {
				if data.Action == models.ActionResubmit {
					return models.ErrNotResubmittable
				}
				return models.ErrAlreadyProcessed
			}
			return ttactivityhandler.NewHandlerWithTx(tx).Record(ttactivityhandler.Entry{
				SpaceID:        principal.SpaceID,
				RequestID:      id,
				Action:         models.ActivityStatusChanged,
				ActorID:        principal.UserID,
				PreviousStatus: data.Action.AllowedFrom(),
				NewStatus:      data.Action.Target(),
				FeedbackReason: reason,
				At:             now,
			})
		})
	})
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	if !locked {
		return ttapimodels.RequestView{}, models.ErrRequestLocked
	}
	i.invalidate(principal.SpaceID)
	logger.
		WithField("status", data.Action.Target()).
		Info("time tracking request status changed")

	rec, err = i.getRec(principal.SpaceID, id)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	if data.Action.IsDecision() {
		go i.notifyDecision(*rec, data.Action, reason)
	}
	return i.detailView(ctx, *rec), nil
}

func checkTransitionActor(principal models.Principal, rec dbmodels.TimeTrackingRequest, action models.RequestAction) error {
	if action.IsDecision() {
		if !principal.CanManageRequests() {
			return models.ErrNoManagePermission
		}
		if rec.UserID == principal.UserID {
			return models.ErrSelfApproval
		}
		return nil
	}
	if rec.UserID != principal.UserID {
		return models.ErrNotRequestOwner
	}
	return nil
}

func checkTransitionState(status models.ApprovalStatus, action models.RequestAction) error {
	if status.AllowAction(action) {
		return nil
	}
	if action == models.ActionResubmit {
		return models.ErrNotResubmittable
	}
	return models.ErrAlreadyProcessed
}

// transitionUpdate sets the decision fields of the target status and clears the others
func transitionUpdate(action models.RequestAction, actorID, reason string, now time.Time) map[string]interface{} {
	updMap := map[string]interface{}{
		"approval_status":         action.Target(),
		"updated_at":              now,
		"approved_by":             nil,
		"approved_at":             nil,
		"rejected_by":             nil,
		"rejected_at":             nil,
		"rejection_reason":        nil,
		"needs_info_requested_by": nil,
		"needs_info_requested_at": nil,
		"needs_info_reason":       nil,
	}
	switch action {
	case models.ActionApprove:
		updMap["approved_by"] = actorID
		updMap["approved_at"] = now
	case models.ActionReject:
		updMap["rejected_by"] = actorID
		updMap["rejected_at"] = now
		updMap["rejection_reason"] = reason
	case models.ActionNeedsInfo:
		updMap["needs_info_requested_by"] = actorID
		updMap["needs_info_requested_at"] = now
		updMap["needs_info_reason"] = reason
	}
	return updMap
}

func (i impl) Update(ctx context.Context, principal models.Principal, id string, data ttapimodels.RequestEditData) (ttapimodels.RequestView, error) {
	logger := i.getLogger(principal.SpaceID, id).
		WithField("user_id", principal.UserID)
	rec, err := i.getRec(principal.SpaceID, id)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	if err = data.Validate(); err != nil {
		return ttapimodels.RequestView{}, err
	}
	if rec.UserID != principal.UserID {
		return ttapimodels.RequestView{}, models.ErrNotRequestOwner
	}
	if !rec.ApprovalStatus.IsEditable() {
		return ttapimodels.RequestView{}, models.ErrRequestNotEditable
	}
	edit, err := buildContentEdit(*rec, data, nil)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	if len(edit.changes) == 0 && len(data.NewImages) == 0 {
		return i.detailView(ctx, *rec), nil
	}

	uploaded, err := i.uploadImages(ctx, principal.SpaceID, id, data.NewImages)
	if err != nil {
		logger.WithError(err).Error("failed to upload request images")
		return ttapimodels.RequestView{}, errors.New("failed to upload request images")
	}
	now := i.now()

	// guards above ran on a stale read, the diff is rebuilt from the row under the lock
	locked, err := lock.WithDelay(ctx, lock.Key(lockPrefix, id), lockWait, func() error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			store := ttrequeststore.NewInstance(tx)
			current, err := store.GetByID(principal.SpaceID, id)
			if err != nil {
				logger.WithError(err).Error("failed to reload time tracking request")
				return errors.New("failed to update request content")
			}
			if current == nil {
				return models.ErrRequestNotFound
			}
			if !current.ApprovalStatus.IsEditable() {
				return models.ErrRequestNotEditable
			}
			edit, err = buildContentEdit(*current, data, uploaded)
			if err != nil {
				return err
			}
			if len(edit.changes) == 0 {
				return nil
			}
			edit.updMap["updated_at"] = now
			updated, err := store.UpdateContent(principal.SpaceID, id, editableStatuses, current.ContentVersion, edit.updMap)
			if err != nil {
				logger.WithError(err).Error("failed to update request content")
				return errors.New("failed to update request content")
			}
			if !updated {
				return models.ErrRequestLocked
			}
			return ttactivityhandler.NewHandlerWithTx(tx).Record(ttactivityhandler.Entry{
				SpaceID:       principal.SpaceID,
				RequestID:     id,
				Action:        models.ActivityContentUpdated,
				ActorID:       principal.UserID,
				ChangedFields: edit.changes,
				At:            now,
			})
		})
	})
	if err == nil && !locked {
		err = models.ErrRequestLocked
	}
	if err != nil {
		i.removeImages(ctx, uploaded)
		return ttapimodels.RequestView{}, err
	}
	if len(edit.changes) > 0 {
		i.removeImages(ctx, edit.removed)
		i.invalidate(principal.SpaceID)
		logger.
			WithField("changed_fields", edit.changes.Names()).
			Info("time tracking request content updated")
	}
	return i.view(ctx, principal.SpaceID, id)
}

// contentEdit is what an edit changes on one loaded version of a request
type contentEdit struct {
	changes dbmodels.FieldChanges
	updMap  map[string]interface{}
	removed []string
}

func buildContentEdit(rec dbmodels.TimeTrackingRequest, data ttapimodels.RequestEditData, uploaded []string) (contentEdit, error) {
	kept, removed := splitImages(rec.ImagePaths(), data.RemovedImages)
	if len(kept)+len(data.NewImages) > models.MaxRequestImages {
		return contentEdit{}, models.ErrTooManyImages
	}
	changes, updMap := contentDiff(rec, data.RequestData)
	if len(removed) > 0 || len(uploaded) > 0 {
		newImages := append(append([]string{}, kept...), uploaded...)
		changes["images"] = dbmodels.FieldChange{Old: rec.ImagePaths(), New: newImages}
		updMap["images"] = datatypes.JSONSlice[string](newImages)
	}
	return contentEdit{
		changes: changes,
		updMap:  updMap,
		removed: removed,
	}, nil
}

// contentDiff compares text and time fields, images are handled by the caller
func contentDiff(rec dbmodels.TimeTrackingRequest, data ttapimodels.RequestData) (dbmodels.FieldChanges, map[string]interface{}) {
	changes := dbmodels.FieldChanges{}
	updMap := map[string]interface{}{}
	if rec.Title != data.Title {
		changes["title"] = dbmodels.FieldChange{Old: rec.Title, New: data.Title}
		updMap["title"] = data.Title
	}
	if rec.Description != data.Description {
		changes["description"] = dbmodels.FieldChange{Old: rec.Description, New: data.Description}
		updMap["description"] = data.Description
	}
	if !rec.StartTime.Equal(data.StartTime) {
		changes["start_time"] = dbmodels.FieldChange{Old: rec.StartTime.UTC().Format(time.RFC3339), New: data.StartTime.UTC().Format(time.RFC3339)}
		updMap["start_time"] = data.StartTime
	}
	if !rec.EndTime.Equal(data.EndTime) {
		changes["end_time"] = dbmodels.FieldChange{Old: rec.EndTime.UTC().Format(time.RFC3339), New: data.EndTime.UTC().Format(time.RFC3339)}
		updMap["end_time"] = data.EndTime
	}
	return changes, updMap
}

// splitImages ignores removal of paths the request does not have
func splitImages(current, removed []string) (kept, dropped []string) {
	removeSet := make(map[string]struct{}, len(removed))
	for _, item := range removed {
		removeSet[item] = struct{}{}
	}
	kept = []string{}
	for _, item := range current {
		if _, ok := removeSet[item]; ok {
			dropped = append(dropped, item)
			continue
		}
		kept = append(kept, item)
	}
	return kept, dropped
}

func (i impl) List(principal models.Principal, filter ttapimodels.RequestFilter) (ttapimodels.RequestListView, error) {
	logger := i.getLogger(principal.SpaceID, "")
	storeFilter := i.storeFilter(principal, filter)
	page, limit := filter.GetPage()
	cacheKey := cache.Key(principal.SpaceID, "requests:list", map[string]interface{}{
		"status": filter.Status,
		"user":   storeFilter.UserID,
		"page":   page,
		"limit":  limit,
	})
	if cached, ok := i.cache.Get(cacheKey); ok {
		return cached.(ttapimodels.RequestListView), nil
	}
	generation := i.cache.Generation(principal.SpaceID)

	rowCount, err := i.store.ListCount(principal.SpaceID, storeFilter)
	if err != nil {
		logger.WithError(err).Error("failed to count time tracking requests")
		return ttapimodels.RequestListView{}, errors.New("failed to load time tracking requests")
	}
	result := ttapimodels.RequestListView{
		Requests:   []ttapimodels.RequestView{},
		TotalCount: rowCount,
		TotalPages: apimodels.TotalPages(rowCount, limit),
	}
	if int64((page-1)*limit) < rowCount {
		list, err := i.store.List(principal.SpaceID, storeFilter, page, limit)
		if err != nil {
			logger.WithError(err).Error("failed to load time tracking requests")
			return ttapimodels.RequestListView{}, errors.New("failed to load time tracking requests")
		}
		for _, rec := range list {
			result.Requests = append(result.Requests, ttapimodels.RequestConvert(rec))
		}
	}
	i.cache.Set(principal.SpaceID, generation, cacheKey, result)
	return result, nil
}

func (i impl) storeFilter(principal models.Principal, filter ttapimodels.RequestFilter) ttrequeststore.Filter {
	result := ttrequeststore.Filter{
		UserID: filter.UserID,
	}
	if status := filter.Status.Status(); status != "" {
		result.Statuses = []models.ApprovalStatus{status}
	}
	if !principal.CanManageRequests() {
		result.UserID = principal.UserID
	}
	return result
}

func (i impl) Pending(principal models.Principal) (ttapimodels.BannerView, error) {
	logger := i.getLogger(principal.SpaceID, "").
		WithField("user_id", principal.UserID)
	storeFilter := ttrequeststore.Filter{
		Statuses: []models.ApprovalStatus{models.ApprovalStatusPending, models.ApprovalStatusNeedsInfo},
		UserID:   principal.UserID,
	}
	cacheKey := cache.Key(principal.SpaceID, "requests:pending", map[string]interface{}{
		"user": principal.UserID,
	})
	if cached, ok := i.cache.Get(cacheKey); ok {
		return cached.(ttapimodels.BannerView), nil
	}
	generation := i.cache.Generation(principal.SpaceID)
	rowCount, err := i.store.ListCount(principal.SpaceID, storeFilter)
	if err != nil {
		logger.WithError(err).Error("failed to count pending requests")
		return ttapimodels.BannerView{}, errors.New("failed to load pending requests")
	}
	result := ttapimodels.BannerView{
		Requests:   []ttapimodels.RequestView{},
		TotalCount: rowCount,
		HasMore:    rowCount > int64(i.bannerLimit),
	}
	if rowCount > 0 {
		list, err := i.store.List(principal.SpaceID, storeFilter, 1, i.bannerLimit)
		if err != nil {
			logger.WithError(err).Error("failed to load pending requests")
			return ttapimodels.BannerView{}, errors.New("failed to load pending requests")
		}
		for _, rec := range list {
			result.Requests = append(result.Requests, ttapimodels.RequestConvert(rec))
		}
	}
	i.cache.Set(principal.SpaceID, generation, cacheKey, result)
	return result, nil
}

func (i impl) Summary(principal models.Principal) (ttapimodels.SummaryView, error) {
	userID := ""
	if !principal.CanManageRequests() {
		userID = principal.UserID
	}
	cacheKey := cache.Key(principal.SpaceID, "requests:summary", map[string]interface{}{
		"user": userID,
	})
	if cached, ok := i.cache.Get(cacheKey); ok {
		return cached.(ttapimodels.SummaryView), nil
	}
	generation := i.cache.Generation(principal.SpaceID)
	counts, err := i.store.CountByStatus(principal.SpaceID, userID)
	if err != nil {
		i.getLogger(principal.SpaceID, "").
			WithError(err).
			Error("failed to count requests by status")
		return ttapimodels.SummaryView{}, errors.New("failed to load request summary")
	}
	result := ttapimodels.SummaryView{
		Pending:   counts[models.ApprovalStatusPending],
		Approved:  counts[models.ApprovalStatusApproved],
		Rejected:  counts[models.ApprovalStatusRejected],
		NeedsInfo: counts[models.ApprovalStatusNeedsInfo],
	}
	result.Total = result.Pending + result.Approved + result.Rejected + result.NeedsInfo
	i.cache.Set(principal.SpaceID, generation, cacheKey, result)
	return result, nil
}

func (i impl) Export(principal models.Principal, filter ttapimodels.RequestFilter) (*bytes.Buffer, error) {
	logger := i.getLogger(principal.SpaceID, "")
	list, err := i.store.List(principal.SpaceID, i.storeFilter(principal, filter), 1, exportMaxRows)
	if err != nil {
		logger.WithError(err).Error("failed to load requests for export")
		return nil, errors.New("failed to export time tracking requests")
	}
	buf, err := i.exporter.ExportRequestList(list)
	if err != nil {
		logger.WithError(err).Error("failed to build requests xlsx")
		return nil, errors.New("failed to export time tracking requests")
	}
	return buf, nil
}

func (i impl) Activity(principal models.Principal, id string, pagination apimodels.Pagination) (ttapimodels.ActivityListView, error) {
	if _, err := i.CheckAccess(principal, id); err != nil {
		return ttapimodels.ActivityListView{}, err
	}
	return i.activity.List(principal.SpaceID, id, pagination)
}

func (i impl) getRec(spaceID, id string) (*dbmodels.TimeTrackingRequest, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		i.getLogger(spaceID, id).
			WithError(err).
			Error("failed to load time tracking request")
		return nil, errors.New("failed to load time tracking request")
	}
	if rec == nil {
		return nil, models.ErrRequestNotFound
	}
	return rec, nil
}

func (i impl) view(ctx context.Context, spaceID, id string) (ttapimodels.RequestView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return ttapimodels.RequestView{}, err
	}
	return i.detailView(ctx, *rec), nil
}

// detailView adds signed image urls, an image that cannot be signed is left out
func (i impl) detailView(ctx context.Context, rec dbmodels.TimeTrackingRequest) ttapimodels.RequestView {
	view := ttapimodels.RequestConvert(rec)
	if i.fileStorage == nil || len(view.Images) == 0 {
		return view
	}
	view.ImageURLs = make([]string, 0, len(view.Images))
	for _, imagePath := range view.Images {
		signed, err := i.fileStorage.GetSignedURL(ctx, imagePath)
		if err != nil {
			i.getLogger(rec.SpaceID, rec.ID).
				WithField("image", imagePath).
				WithError(err).
				Warn("failed to sign image url")
			continue
		}
		view.ImageURLs = append(view.ImageURLs, signed)
	}
	return view
}

func (i impl) uploadImages(ctx context.Context, spaceID, requestID string, images []ttapimodels.ImageFile) ([]string, error) {
	uploaded := []string{}
	if len(images) == 0 {
		return uploaded, nil
	}
	if i.fileStorage == nil {
		return nil, errors.New("file storage is not configured")
	}
	for _, image := range images {
		objectPath := path.Join(spaceID, imageDirectory, requestID, uuid.NewString()+strings.ToLower(path.Ext(image.FileName)))
		err := i.fileStorage.UploadFile(ctx, objectPath, image.Content, image.Size, image.ContentType)
		if err != nil {
			i.removeImages(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, objectPath)
	}
	return uploaded, nil
}

func (i impl) removeImages(ctx context.Context, paths []string) {
	if i.fileStorage == nil || len(paths) == 0 {
		return
	}
	if err := i.fileStorage.RemoveFiles(ctx, paths); err != nil {
		log.WithField("images", paths).
			WithError(err).
			Warn("failed to remove request images")
	}
}
