package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mlb-trending/trending/app/routes"
	"github.com/mlb-trending/trending/internal/config"
	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/internal/logging"
	"github.com/mlb-trending/trending/pkg/router"
	"github.com/mlb-trending/trending/pkg/server"
)

// cliRouter resolves against the application table, logging only errors.
func cliRouter(w io.Writer) *router.Router {
	logger := logging.New(config.LogConfig{Level: "error"}, w)
	return router.NewRouter(routes.Table(), router.WithLogger(logger.With("component", "router")))
}

func routesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the route table in declaration order. Matching scans the table
top to bottom and the first entry that fits wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := server.RouteInfos(routes.Table())
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, infos)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tVIEW\tPROPS")
			for _, ri := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", ri.Name, ri.Path, ri.View, ri.Props)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func resolveCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Resolve a URL against the route table",
		Long: `Resolve a URL the way the application shell does. The query string
and fragment are ignored, as is a trailing slash.

Examples:
  trending resolve /player/42
  trending resolve '/player/mike-trout?tab=stats' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cliRouter(cmd.ErrOrStderr()).Resolve(cmd.Context(), args[0])
			w := cmd.OutOrStdout()
			if asJSON {
				if jerr := writeJSON(w, server.NewResolution(m, err)); jerr != nil {
					return jerr
				}
				return err
			}
			if err != nil {
				return err
			}

			success(w, "%s → %s (view %s)", m.Location.Path, m.Route.Name, m.Route.View)
			for _, k := range sortedKeys(m.Params) {
				info(w, "%s = %q", k, m.Params[k])
			}
			if m.Props != nil {
				info(w, "props forwarded to view")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func urlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url <name> [key=value...]",
		Short: "Build the URL of a named route",
		Long: `Build the URL of a named route for programmatic navigation.

Examples:
  trending url HomePage
  trending url PlayerProfile player_id=42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			u, err := routes.Table().URL(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	return cmd
}

// parseParams parses key=value arguments.
func parseParams(args []string) (router.Params, error) {
	params := make(router.Params, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.New(errors.CodeInvalidArgument).
				WithDetailf("%q is not key=value", arg).
				WithSuggestion("Pass parameters as name=value, e.g. player_id=42")
		}
		params[k] = v
	}
	return params, nil
}

func sortedKeys(p router.Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
