package initializers

import (
	"context"
	"cultivation-backend/config"
	"cultivation-backend/fiberlog"
	audithandler "cultivation-backend/lib/audit"
	batchprovider "cultivation-backend/lib/batch"
	compliancehandler "cultivation-backend/lib/compliance"
	xlsexport "cultivation-backend/lib/export/xls"
	facilityauthhandler "cultivation-backend/lib/facility/auth"
	facilityusershandler "cultivation-backend/lib/facility/users"
	notifyhandler "cultivation-backend/lib/notify"
	"cultivation-backend/lib/rbac"
	"cultivation-backend/lib/release"
	releaseapprovalhandler "cultivation-backend/lib/release-approval"
	releasecheckpointhandler "cultivation-backend/lib/release-checkpoint"
	releasenumberhandler "cultivation-backend/lib/release-number"
	releasetemplatehandler "cultivation-backend/lib/release-template"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	batchprovider.NewHandler()
	releasetemplatehandler.NewHandler()
	releasenumberhandler.NewHandler()
	audithandler.NewHandler()
	compliancehandler.NewHandler()
	notifyhandler.NewHandler()
	release.NewHandler()
	releasecheckpointhandler.NewHandler()
	releaseapprovalhandler.NewHandler()
	facilityauthhandler.NewHandler()
	facilityusershandler.NewHandler()
	xlsexport.NewHandler()
	rbac.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача пересылки событий в реестр регулятора
	compliancehandler.StartForwardWorker(ctx)
}
