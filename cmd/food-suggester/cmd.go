package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"food-suggester/internal/app"
	"food-suggester/internal/choice"
	"food-suggester/internal/config"
	"food-suggester/internal/planner"
	"food-suggester/internal/shared"
	"food-suggester/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func SetupCommands(a *app.App, cfg *config.Config, log *zap.Logger) *cobra.Command {
	// root command
	rootCmd := &cobra.Command{
		Use:          "food-suggester",
		Short:        "Suggest recipes you have not eaten in the last few days",
		SilenceUsage: true,
	}

	var date string
	dateFlag := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show recipe suggestions and what was chosen on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date)
			if err != nil {
				return err
			}
			return a.PrintSuggestions(cmd.Context(), cmd.OutOrStdout(), d)
		},
	}
	dateFlag(suggestCmd)

	var fromURL string
	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a recipe by name or from a link (--url)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := fromURL
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" {
				return errors.New("a recipe name or --url is required")
			}
			return a.AddRecipe(cmd.Context(), cmd.OutOrStdout(), input)
		},
	}
	addCmd.Flags().StringVar(&fromURL, "url", "", "link to a recipe page")

	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "List all recipes with their numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.PrintRecipes(cmd.Context(), cmd.OutOrStdout())
		},
	}

	choicesCmd := &cobra.Command{
		Use:   "choices",
		Short: "Show every chosen recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.PrintChoices(cmd.Context(), cmd.OutOrStdout())
		},
	}

	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Show Morning and Evening foods of a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDate(date)
			if err != nil {
				return err
			}
			return a.PrintDayPlan(cmd.Context(), cmd.OutOrStdout(), d)
		},
	}
	dateFlag(dayCmd)

	slotCmd := &cobra.Command{
		Use:       "slot <Morning|Evening>",
		Short:     "Show the foods chosen for one slot of a date",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(choice.Morning), string(choice.Evening)},
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := choice.ParseSlot(args[0])
			if err != nil {
				return err
			}
			d, err := resolveDate(date)
			if err != nil {
				return err
			}
			return a.PrintSlot(cmd.Context(), cmd.OutOrStdout(), d, slot)
		},
	}
	dateFlag(slotCmd)

	var expect string
	finalizeCmd := &cobra.Command{
		Use:   "finalize <number> <Morning|Evening>",
		Short: "Log the recipe with the given number for a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", planner.ErrInvalidSelection, args[0])
			}
			slot, err := choice.ParseSlot(args[1])
			if err != nil {
				return err
			}
			d, err := resolveDate(date)
			if err != nil {
				return err
			}
			return a.Finalize(cmd.Context(), cmd.OutOrStdout(), planner.Selection{
				Number:       number,
				Slot:         slot,
				Date:         d,
				ExpectedName: expect,
			})
		},
	}
	dateFlag(finalizeCmd)
	finalizeCmd.Flags().StringVar(&expect, "expect", "", "refuse unless the number still names this recipe")

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Add one recipe per line of a file (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			report, err := a.ImportRecipes(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes (%d skipped, %d failed); catalog has %d recipes.\n", report.Added, report.Skipped, report.Failed, report.Total)
			return nil
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// app.New has already migrated the store
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date.\n", cfg.DatabasePath)
			return nil
		},
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), a, addr, log)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", cfg.HTTPAddr, "listen address")

	// add commands
	rootCmd.AddCommand(suggestCmd, addCmd, recipesCmd, choicesCmd, dayCmd, slotCmd, finalizeCmd, importCmd, migrateCmd, serveCmd)

	return rootCmd
}

func resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		return shared.Today(), nil
	}
	return shared.ParseDate(raw)
}

func serve(ctx context.Context, a *app.App, addr string, log *zap.Logger) error {
	srv, err := web.NewServer(a.Planner, a.Clipper(), a.Health, log)
	if err != nil {
		return fmt.Errorf("failed to initialize web server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("web server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit.Done():
	}
	log.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exiting")
	return nil
}
