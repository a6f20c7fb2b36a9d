// POST   /auth/login            # Логин администратора (публичный)
// GET    /students              # Список студентов (auth)
// POST   /students              # Добавить студента (auth)
// PUT    /students/update/{id}  # Заменить запись (auth)
// DELETE /students/{id}         # Удалить запись (auth)
// GET    /students/export       # Записи для CSV (auth)
// GET    /health                # Проверка живости (публичный)
// GET    /metrics               # Метрики Prometheus

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"studentadmin/internal/app/server/api/http/health"
	"studentadmin/internal/app/server/api/http/middleware"
	"studentadmin/internal/app/server/api/http/middleware/auth"
	"studentadmin/internal/app/server/api/http/middleware/logger"
	"studentadmin/internal/app/server/api/http/middleware/metrics"
	studentAPI "studentadmin/internal/app/server/api/http/student"
	userAPI "studentadmin/internal/app/server/api/http/user"
	"studentadmin/internal/domain/session"
	"studentadmin/internal/domain/student"
	"studentadmin/internal/domain/user"
	"studentadmin/internal/infrastructure/storage"
)

type Handlers struct {
	Health  *health.Handler
	User    *userAPI.Handler
	Student *studentAPI.Handler
}

// Deps - сервисы, которые нужны HTTP слою
type Deps struct {
	Storage  storage.Storage
	Users    user.Servicer
	Sessions session.Servicer
	Registry *prometheus.Registry
}

// New создает *chi.Mux со всеми операциями через huma.Register и /metrics
func New(deps Deps, log *slog.Logger) *chi.Mux {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	mux := chi.NewMux()

	config := huma.DefaultConfig("Student Admin API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Student.SetupRoutes(API)

	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	authMW := auth.New(deps.Sessions, log)
	loggerMW := logger.New(log)
	metricsMW := metrics.New(deps.Registry)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := health.NewHandler(deps.Storage, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware(), metricsMW.Middleware())
	userHandler := userAPI.NewHandler(deps.Users, deps.Sessions, log, middlewares.GetAllAndClear())

	studentService := student.NewService(deps.Storage.Students(), log)
	middlewares.Add(loggerMW.Middleware(), metricsMW.Middleware(), authMW.Middleware())
	studentHandler := studentAPI.NewHandler(studentService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		User:    userHandler,
		Student: studentHandler,
	}
}
