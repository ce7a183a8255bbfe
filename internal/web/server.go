package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/metrics"
	"food-suggester/internal/planner"
	"food-suggester/internal/recipe"
	"food-suggester/internal/shared"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Planner is the subset of planner.Planner the web shell drives.
type Planner interface {
	SuggestFor(ctx context.Context, date time.Time) (planner.Suggestions, error)
	DayPlan(ctx context.Context, date time.Time) (planner.DayPlan, error)
	Finalize(ctx context.Context, sel planner.Selection) (planner.Finalized, error)
	AddRecipe(ctx context.Context, name string) (recipe.Recipe, error)
	ListRecipes(ctx context.Context) ([]recipe.Numbered, error)
	ListChoices(ctx context.Context) ([]choice.Choice, error)
}

// NameClipper turns a recipe page URL into a recipe name.
type NameClipper interface {
	RecipeName(ctx context.Context, url string) (string, error)
}

// HealthFunc reports process health for /health.
type HealthFunc func(ctx context.Context) metrics.Health

// Server is the HTML form shell.
type Server struct {
	planner Planner
	clipper NameClipper
	health  HealthFunc
	log     *zap.Logger
	pages   map[string]*template.Template

	// now is swapped in tests.
	now func() time.Time
}

// NewServer parses the embedded templates and wires the shell.
func NewServer(p Planner, clipper NameClipper, health HealthFunc, log *zap.Logger) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		planner: p,
		clipper: clipper,
		health:  health,
		log:     log,
		pages:   pages,
		now:     time.Now,
	}, nil
}

// Routes returns the HTTP handler of the shell.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/choose", http.StatusFound)
	})
	r.Get("/health", s.handleHealth)

	r.Route("/choose", func(r chi.Router) {
		r.Get("/", s.handleChoose)
		r.Post("/finalize", s.handleFinalize)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", s.handleRecipes)
		r.Post("/", s.handleAddRecipe)
		r.Get("/new", s.handleNewRecipe)
	})

	return r
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"formatDate": shared.FormatDate,
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"choose", "add", "recipes"} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages[page].ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error("failed to render page", zap.String("page", page), zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
