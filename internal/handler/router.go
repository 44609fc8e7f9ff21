package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/notevault/internal/metrics"
	"github.com/hitoshi/notevault/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	AppPassword       string
	RateLimiter       *middleware.RateLimiter
	MetricsGatherer   prometheus.Gatherer

	// ドメインサービス
	NoteService         NoteServiceInterface
	NotebookService     NotebookServiceInterface
	PlannerService      PlannerServiceInterface
	CalendarFeedService CalendarFeedServiceInterface
	CalendarService     CalendarEventServiceInterface
	TaskService         TaskServiceInterface
	ExportService       ExportServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → LoggingMiddleware → RecoveryMiddleware → BasicAuthMiddleware → RateLimitMiddleware(General)
//
// /health と /metrics は認証とレート制限の外に配置する。
// GET /api/calendar-events には外部フェッチを伴うため専用レート制限を追加適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewRecoveryMiddleware())

	healthHandler := NewHealthHandler(deps.HealthChecker)
	noteHandler := NewNoteHandler(deps.NoteService)
	notebookHandler := NewNotebookHandler(deps.NotebookService)
	plannerHandler := NewPlannerHandler(deps.PlannerService)
	calendarHandler := NewCalendarHandler(deps.CalendarFeedService, deps.CalendarService)
	taskHandler := NewTaskHandler(deps.TaskService)
	exportHandler := NewExportHandler(deps.ExportService)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: BasicAuth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewBasicAuthMiddleware(deps.AppPassword))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ノート管理
		r.Route("/api/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)
			r.Post("/", noteHandler.CreateNote)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.GetNote)
				r.Put("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
			})
		})

		// ノートブック管理
		r.Route("/api/notebooks", func(r chi.Router) {
			r.Get("/", notebookHandler.ListNotebooks)
			r.Post("/", notebookHandler.CreateNotebook)

			// /api/notebooks/{id} より先に定義してreorderをIDとして解釈させない
			r.Patch("/reorder", notebookHandler.ReorderNotebooks)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", notebookHandler.UpdateNotebook)
				r.Delete("/", notebookHandler.DeleteNotebook)
			})
		})

		// タグ管理
		r.Route("/api/tags", func(r chi.Router) {
			r.Get("/", notebookHandler.ListTags)
			r.Delete("/{id}", notebookHandler.DeleteTag)
		})

		// 週間プランナー
		r.Route("/api/planner", func(r chi.Router) {
			r.Get("/", plannerHandler.ListItems)
			r.Post("/", plannerHandler.CreateItem)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", plannerHandler.UpdateItem)
				r.Delete("/", plannerHandler.DeleteItem)
			})
		})

		// カレンダーフィード管理
		r.Route("/api/calendar-feeds", func(r chi.Router) {
			r.Get("/", calendarHandler.ListFeeds)
			r.Post("/", calendarHandler.CreateFeed)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", calendarHandler.UpdateFeed)
				r.Delete("/", calendarHandler.DeleteFeed)
			})
		})

		// カレンダーイベント集約（外部フェッチを伴うため専用レート制限を追加）
		r.With(deps.RateLimiter.CalendarMiddleware()).
			Get("/api/calendar-events", calendarHandler.ListEvents)

		// タスクビュー
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Put("/{id}", taskHandler.ToggleTask)
		})

		// バックアップ
		r.Get("/api/export", exportHandler.Export)
	})

	return r
}
