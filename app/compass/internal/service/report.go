package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/engine"
	compassLogger "github.com/iWorld-y/company_compass/app/compass/pkg/logger"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

const (
	// ReasonInvalidRequest 输入校验失败
	ReasonInvalidRequest = "INVALID_REQUEST"
	// ReasonConfigError 配置缺失或无效
	ReasonConfigError = "CONFIG_ERROR"
	// ReasonReportFailed 报告渲染失败
	ReasonReportFailed = "REPORT_FAILED"
)

// Runner 执行一次报告生成，由 engine.Engine 实现
type Runner interface {
	Run(ctx context.Context, opts engine.RunOptions) (*engine.Report, error)
}

// ReportService 报告生成服务
type ReportService struct {
	runner Runner
	cfgErr error
	log    *log.Helper
}

// NewReportService 根据配置创建服务。
// 配置无效时不返回错误，而是以降级模式启动，所有请求都返回配置错误。
func NewReportService(cfg *config.Config, logger log.Logger) (*ReportService, func(), error) {
	helper := log.NewHelper(logger)

	if err := cfg.Validate(); err != nil {
		helper.Errorf("配置无效，服务以降级模式启动: %v", err)
		return &ReportService{cfgErr: err, log: helper}, func() {}, nil
	}

	eng, cleanup, err := engine.New(context.Background(), cfg, compassLogger.Log)
	if err != nil {
		helper.Errorf("引擎初始化失败，服务以降级模式启动: %v", err)
		return &ReportService{cfgErr: err, log: helper}, func() {}, nil
	}

	return NewReportServiceWithRunner(eng, logger), func() {
		helper.Info("Cleaning up report engine")
		cleanup()
	}, nil
}

// NewReportServiceWithRunner 使用已有的 Runner 创建服务
func NewReportServiceWithRunner(r Runner, logger log.Logger) *ReportService {
	return &ReportService{runner: r, log: log.NewHelper(logger)}
}

// ConfigError 返回启动时的配置错误，正常时为 nil
func (s *ReportService) ConfigError() error {
	return s.cfgErr
}

// Generate 生成报告，错误统一转换为 kratos 错误
func (s *ReportService) Generate(ctx context.Context, company, country string) (*engine.Report, error) {
	if s.cfgErr != nil {
		return nil, ConfigUnavailable(s.cfgErr)
	}

	req := model.ReportRequest{Company: company, Country: country}
	report, err := s.runner.Run(ctx, engine.RunOptions{
		Request: req,
		ProgressCallback: func(status string, progress int) {
			s.log.WithContext(ctx).Debugf("report progress: %s (%d%%)", status, progress)
		},
	})
	if err != nil {
		if stderrors.Is(err, model.ErrInvalidRequest) {
			return nil, errors.BadRequest(ReasonInvalidRequest, invalidMessage(req)).WithCause(err)
		}
		s.log.WithContext(ctx).Errorf("report generation failed: %v", err)
		return nil, errors.InternalServer(ReasonReportFailed, "No fue posible generar el informe.").WithCause(err)
	}
	return report, nil
}

// ConfigUnavailable 配置错误对应的 503
func ConfigUnavailable(err error) *errors.Error {
	return errors.ServiceUnavailable(ReasonConfigError, "Error de configuración: "+err.Error())
}

func invalidMessage(req model.ReportRequest) string {
	if strings.TrimSpace(req.Company) == "" {
		return "Debes ingresar un nombre de empresa."
	}
	return "Debes ingresar un país."
}
