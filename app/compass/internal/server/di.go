package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/company_compass/app/compass/internal/service"
)

// ProviderSet 是报告服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Service providers
	service.NewReportService,
)
