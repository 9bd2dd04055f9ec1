package finalworks

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/authz"
	loginhandler "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/auth/login"
	registerhandler "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/auth/register"
	bookmarkcreate "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/bookmark/create"
	bookmarklist "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/bookmark/list"
	bookmarkremove "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/bookmark/remove"
	commentcreate "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/comment/create"
	commentlist "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/comment/list"
	commentremove "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/comment/remove"
	faultloghandler "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/faultlog"
	ratingcreate "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/rating/create"
	ratingremove "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/rating/remove"
	ratingsummary "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/rating/summary"
	studenthandler "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/student"
	tagcreate "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/tag/create"
	taglist "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/tag/list"
	workcreate "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/work/create"
	worklist "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/work/list"
	workread "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/work/read"
	workremove "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/work/remove"
	workupdate "github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/work/update"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/finalworks-platform/internal/services/auth"
	bookmarkservice "github.com/magabrotheeeer/finalworks-platform/internal/services/bookmark"
	faultlogservice "github.com/magabrotheeeer/finalworks-platform/internal/services/faultlog"
	ratingservice "github.com/magabrotheeeer/finalworks-platform/internal/services/rating"
	studentservice "github.com/magabrotheeeer/finalworks-platform/internal/services/student"
	tagservice "github.com/magabrotheeeer/finalworks-platform/internal/services/tag"
	workservice "github.com/magabrotheeeer/finalworks-platform/internal/services/work"
)

// Services — сервисный слой, который получают обработчики маршрутов.
type Services struct {
	Auth      *authservice.AuthService
	Works     *workservice.WorkService
	Ratings   *ratingservice.RatingService
	Bookmarks *bookmarkservice.BookmarkService
	Tags      *tagservice.TagService
	Students  *studentservice.StudentService
	FaultLogs *faultlogservice.FaultLogService
}

// RegisterRoutes регистрирует все маршруты приложения.
// Аутентификация кладет Principal в контекст, а авторизация решается
// таблицей правил до обработчика: сами обработчики прав не проверяют.
func RegisterRoutes(r *chi.Mux, log *slog.Logger, svc *Services) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(middlewarectx.JWTMiddleware(svc.Auth, log))
	r.Use(authz.NewPolicy(authz.DefaultRules()).Middleware(log))

	workListHandler := worklist.New(log, svc.Works)
	tagListHandler := taglist.New(log, svc.Tags)
	studentHandler := studenthandler.New(log, svc.Students)
	faultlogHandler := faultloghandler.New(log, svc.FaultLogs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", registerhandler.New(log, svc.Auth).ServeHTTP)
		r.Post("/auth/login", loginhandler.New(log, svc.Auth).ServeHTTP)

		r.Get("/works", workListHandler.All)
		r.Get("/works/newest", workListHandler.Newest)
		r.Get("/works/top-rated", workListHandler.TopRated)
		r.Get("/works/search", workListHandler.Search)
		r.Get("/works/filter", workListHandler.Filter)
		r.Post("/works", workcreate.New(log, svc.Works).ServeHTTP)
		r.Get("/works/{id}", workread.New(log, svc.Works).ServeHTTP)
		r.Put("/works/{id}", workupdate.New(log, svc.Works).ServeHTTP)
		r.Delete("/works/{id}", workremove.New(log, svc.Works).ServeHTTP)

		r.Get("/works/{id}/comments", commentlist.New(log, svc.Works).ServeHTTP)
		r.Post("/works/{id}/comments", commentcreate.New(log, svc.Works).ServeHTTP)
		r.Delete("/comments/{id}", commentremove.New(log, svc.Works).ServeHTTP)

		r.Post("/ratings/{workID}", ratingcreate.New(log, svc.Ratings).ServeHTTP)
		r.Delete("/ratings/{workID}", ratingremove.New(log, svc.Ratings).ServeHTTP)
		r.Get("/ratings/{workID}/summary", ratingsummary.New(log, svc.Ratings).ServeHTTP)

		r.Get("/bookmarks", bookmarklist.New(log, svc.Bookmarks).ServeHTTP)
		r.Post("/bookmarks/{workID}", bookmarkcreate.New(log, svc.Bookmarks).ServeHTTP)
		r.Delete("/bookmarks/{workID}", bookmarkremove.New(log, svc.Bookmarks).ServeHTTP)

		r.Get("/tags", tagListHandler.All)
		r.Get("/tags/popular", tagListHandler.Popular)
		r.Post("/tags", tagcreate.New(log, svc.Tags).ServeHTTP)

		r.Get("/students", studentHandler.List)
		r.Get("/students/{uid}", studentHandler.Read)
		r.Put("/students/{uid}", studentHandler.Update)
		r.Delete("/students/{uid}", studentHandler.Delete)

		r.Get("/fault-logs", faultlogHandler.List)
		r.Get("/fault-logs/recent", faultlogHandler.Recent)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
