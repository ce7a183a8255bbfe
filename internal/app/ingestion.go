package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ImportReport summarises one ImportRecipes run.
type ImportReport struct {
	Added   int
	Skipped int
	Failed  int
	// Total is the catalog size once the import finished.
	Total int
}

// ImportRecipes adds one recipe per line of r. Blank lines and lines starting
// with '#' are ignored, and names already in the catalog are skipped, so
// importing the same file twice adds nothing. A line that fails is logged and
// counted; only a read error aborts the import.
func (a *App) ImportRecipes(ctx context.Context, r io.Reader) (ImportReport, error) {
	var report ImportReport

	existing, err := a.Planner.ListRecipes(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list existing recipes: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		known[strings.ToLower(rec.Name)] = struct{}{}
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		name, err := a.resolveName(ctx, input)
		if err != nil {
			a.log.Warn("failed to import recipe", zap.Int("line", line), zap.String("input", input), zap.Error(err))
			report.Failed++
			continue
		}
		if _, ok := known[strings.ToLower(name)]; ok {
			report.Skipped++
			continue
		}

		rec, err := a.Planner.AddRecipe(ctx, name)
		if err != nil {
			a.log.Warn("failed to import recipe", zap.Int("line", line), zap.String("input", input), zap.Error(err))
			report.Failed++
			continue
		}
		known[strings.ToLower(rec.Name)] = struct{}{}
		report.Added++
		a.log.Info("imported recipe", zap.Int("line", line), zap.String("name", rec.Name))
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("failed to read import: %w", err)
	}

	report.Total, err = a.Planner.CountRecipes(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to count recipes: %w", err)
	}
	return report, nil
}
