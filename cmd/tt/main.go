package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tasktree/internal/app"
	"tasktree/internal/config"
	"tasktree/pkg/progress"
	"tasktree/pkg/tree"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tt:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tt",
		Short:         "tt - projects, tasks and subtasks with progress and time estimates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("TASKTREE_CONFIG"), "path to YAML config file")

	root.AddCommand(newInitCmd(), newShowCmd(), newDispatchCmd(), newServeCmd())
	return root
}

// open loads config, connects and loads the tree. Unlike the server, the CLI
// falls back to the SQLite file so that changes outlive the process.
func open(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadWithFallback(configPath, config.BackendSQLite)
	if err != nil {
		return nil, err
	}
	if cfg.Backend == config.BackendMemory {
		log.Printf("tt: memory backend selected; changes are discarded on exit")
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Start(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the projects and tasks tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "tables ready (%s backend)\n", a.Config.Backend)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the project tree with progress and estimated time",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Mediator.State()
			if format == "json" {
				return printJSON(cmd.OutOrStdout(), s)
			}
			renderTree(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "tree", "output format: tree or json")
	return cmd
}

func newDispatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <action-json>",
		Short: `Apply one action, e.g. '{"type":"ADD_PROJECT","payload":{"title":"Home"}}'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := tree.DecodeAction([]byte(args[0]))
			if err != nil {
				return err
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			// Close waits for the remote writes before exiting
			defer a.Close()

			renderTree(cmd.OutOrStdout(), a.Mediator.Dispatch(action))
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(ctx)
		},
	}
}

// renderTree prints one line per node with its progress and time.
func renderTree(w io.Writer, s tree.State) {
	if len(s.Projects) == 0 {
		fmt.Fprintln(w, "no projects")
		return
	}
	for _, p := range s.Projects {
		marker := " "
		if p.ID == s.SelectedProjectID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-40s %4d%%  %s\n", marker, truncStr(p.Title, 40), progress.ProjectProgress(p), progress.FormatTime(progress.ProjectTime(p)))
		for _, t := range p.MainTasks {
			fmt.Fprintf(w, "    %-38s %4d%%  %s\n", truncStr(t.Title, 38), progress.MainTaskProgress(t), progress.FormatTime(progress.MainTaskTime(t)))
			for _, st := range t.Subtasks {
				check := "[ ]"
				if st.Completed {
					check = "[x]"
				}
				fmt.Fprintf(w, "      %s %-32s        %s\n", check, truncStr(st.Title, 32), progress.FormatTime(st.EstimatedTime))
			}
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncStr shortens s to at most n runes, marking the cut with an ellipsis.
func truncStr(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return strings.TrimSpace(string(r[:n-1])) + "…"
	}
	return s
}
