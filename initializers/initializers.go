package initializers

import (
	"context"
	"time"
	"time-tracker-backend/config"
	"time-tracker-backend/fiberlog"
	"time-tracker-backend/lib/cache"
	xlsexport "time-tracker-backend/lib/export/xls"
	"time-tracker-backend/lib/rbac"
	spaceusershandler "time-tracker-backend/lib/space/users/handler"
	ttactivityhandler "time-tracker-backend/lib/time-tracking/activity"
	ttcommenthandler "time-tracker-backend/lib/time-tracking/comment"
	ttrequesthandler "time-tracker-backend/lib/time-tracking/request"
	ttthresholdhandler "time-tracker-backend/lib/time-tracking/threshold"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	rbac.NewHandler()
	xlsexport.NewHandler()
	cache.NewHandler(time.Duration(config.Conf.TimeTracking.CacheTTLSec) * time.Second)
	spaceusershandler.NewHandler()
	// request handler captures threshold and activity instances, comments capture requests
	ttthresholdhandler.NewHandler()
	ttactivityhandler.NewHandler()
	ttrequesthandler.NewHandler()
	ttcommenthandler.NewHandler()
}
