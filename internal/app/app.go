package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/clipper"
	"food-suggester/internal/config"
	"food-suggester/internal/database"
	"food-suggester/internal/metrics"
	"food-suggester/internal/planner"
	"food-suggester/internal/recipe"
	"food-suggester/internal/shared"

	"go.uber.org/zap"
)

// NameClipper resolves a recipe link to a recipe name.
type NameClipper interface {
	RecipeName(ctx context.Context, url string) (string, error)
}

// App holds the application's dependencies.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *database.DB
	started time.Time

	Planner *planner.Planner
	clipper NameClipper
}

// New opens the database and wires the repositories, the Planner and the
// Clipper. The caller must Close the returned App.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	recipes := recipe.NewRepository(db.SQL)
	choices := choice.NewRepository(db.SQL)

	return &App{
		cfg:     cfg,
		log:     log,
		db:      db,
		started: time.Now(),
		Planner: planner.NewPlanner(db.SQL, recipes, choices, log),
		clipper: clipper.NewClipper(cfg.FetchTimeout),
	}, nil
}

// DB returns the shared database handle.
func (a *App) DB() *database.DB {
	return a.db
}

// Clipper returns the recipe name resolver.
func (a *App) Clipper() NameClipper {
	return a.clipper
}

// Health reports process and store health.
func (a *App) Health(ctx context.Context) metrics.Health {
	return metrics.Check(ctx, a.db, filepath.Dir(a.cfg.DatabasePath), a.started)
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

// PrintSuggestions writes the suggestions for date and what was already
// chosen that day.
func (a *App) PrintSuggestions(ctx context.Context, w io.Writer, date time.Time) error {
	s, err := a.Planner.SuggestFor(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Chosen foods for %s:\n", shared.FormatDate(date))
	printList(w, s.ChosenToday, "Nothing chosen yet.")

	fmt.Fprintln(w, "\nRecipe suggestions for today:")
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "  No suggestions.")
	}
	for _, item := range s.Items {
		fmt.Fprintf(w, "  %d. %s\n", item.Position, item.Name)
	}
	return nil
}

// PrintDayPlan writes the Morning and Evening choices of date.
func (a *App) PrintDayPlan(ctx context.Context, w io.Writer, date time.Time) error {
	plan, err := a.Planner.DayPlan(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Morning Foods (%s):\n", shared.FormatDate(date))
	printList(w, plan.Morning, "No morning foods selected.")
	fmt.Fprintf(w, "\nEvening Foods (%s):\n", shared.FormatDate(date))
	printList(w, plan.Evening, "No evening foods selected.")
	return nil
}

// PrintSlot writes the choices of one slot on date.
func (a *App) PrintSlot(ctx context.Context, w io.Writer, date time.Time, slot choice.Slot) error {
	names, err := a.Planner.ChoicesForSlot(ctx, date, slot)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Foods (%s):\n", slot, shared.FormatDate(date))
	printList(w, names, fmt.Sprintf("No %s foods selected.", strings.ToLower(string(slot))))
	return nil
}

// PrintRecipes writes the catalog numbered by position.
func (a *App) PrintRecipes(ctx context.Context, w io.Writer) error {
	recipes, err := a.Planner.ListRecipes(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Fprintln(w, "No recipes yet.")
		return nil
	}
	for _, r := range recipes {
		fmt.Fprintf(w, "%d. %s\n", r.Position, r.Name)
	}
	return nil
}

// PrintChoices writes every logged choice as a table.
func (a *App) PrintChoices(ctx context.Context, w io.Writer) error {
	choices, err := a.Planner.ListChoices(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECIPE\tDATE\tTIME")
	for _, c := range choices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.RecipeName, shared.FormatDate(c.ChosenDate), c.ChosenTime)
	}
	return tw.Flush()
}

// AddRecipe stores input as a recipe. Links are resolved to a name first.
func (a *App) AddRecipe(ctx context.Context, w io.Writer, input string) error {
	rec, err := a.addRecipe(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Recipe '%s' added successfully!\n", rec.Name)
	return nil
}

func (a *App) addRecipe(ctx context.Context, input string) (recipe.Recipe, error) {
	name, err := a.resolveName(ctx, input)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return a.Planner.AddRecipe(ctx, name)
}

// resolveName turns a link into the recipe name found on the page.
func (a *App) resolveName(ctx context.Context, input string) (string, error) {
	name := strings.TrimSpace(input)
	if !clipper.IsURL(name) {
		return name, nil
	}
	clipped, err := a.clipper.RecipeName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to clip %s: %w", name, err)
	}
	return clipped, nil
}

// Finalize logs the selection and writes a confirmation.
func (a *App) Finalize(ctx context.Context, w io.Writer, sel planner.Selection) error {
	res, err := a.Planner.Finalize(ctx, sel)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "'%s' finalized for %s!\n", res.RecipeName, strings.ToLower(string(res.Slot)))
	return nil
}

func printList(w io.Writer, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
