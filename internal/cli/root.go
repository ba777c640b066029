package cli

import (
	"fmt"
	"os"
	"strings"

	"taskline/internal/engine"
	"taskline/internal/format"
	"taskline/internal/model"
	"taskline/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Filter     string
	SeedTasks  []string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskline",
		Short:        "In-memory task list for one terminal session",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskline

  # Seed the session and start on the active tab
  taskline --task "Review PR 42" --task "Write release notes" --filter active

  # On-demand documentation
  taskline docs keys
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&app.Filter, "filter", envOr("TASKLINE_FILTER", "all"), "Starting filter (all|active|completed)")
	cmd.Flags().StringArrayVar(&app.SeedTasks, "task", nil, "Seed the session with a task (repeatable)")

	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	eng, err := newEngine(app)
	if err != nil {
		return err
	}
	defer eng.Close()
	return tui.Run(eng)
}

// newEngine builds the session engine from the root flags. Seeding goes
// through AddTask like any other mutation, so flag order maps to the usual
// most-recent-first display order.
func newEngine(app *App) (*engine.Engine, error) {
	f, err := model.ParseFilter(app.Filter)
	if err != nil {
		return nil, err
	}
	eng := engine.New()
	for _, text := range app.SeedTasks {
		eng.AddTask(text)
	}
	eng.SetFilter(f)
	return eng, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
