package handler

import (
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	Worker        *WorkerHandler
	Establishment *EstablishmentHandler
	Attendance    *AttendanceHandler
	Receipt       *ReceiptHandler
	Report        *ReportHandler
	Manual        *ManualAdjustmentHandler
	Dashboard     *DashboardHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth, logger),
		User:          NewUserHandler(svc.User, logger),
		Worker:        NewWorkerHandler(svc.Worker, logger),
		Establishment: NewEstablishmentHandler(svc.Establishment, logger),
		Attendance:    NewAttendanceHandler(svc.Clock, logger),
		Receipt:       NewReceiptHandler(svc.Receipt, logger),
		Report:        NewReportHandler(svc.Report, logger),
		Manual:        NewManualAdjustmentHandler(svc.Manual, logger),
		Dashboard:     NewDashboardHandler(svc.Dashboard, logger),
		Export:        NewExportHandler(svc.Export, logger),
	}
}
