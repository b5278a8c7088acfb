package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"holmes/internal/actions"
	"holmes/internal/alert"
	"holmes/internal/config"
	"holmes/internal/render"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "holmesctl",
		Short:         "Offline tools for the HOLMES alert triage bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Directory file with dashboards, contacts and channels")

	loadDirectory := func() (*config.Directory, error) {
		if configFile == "" {
			return config.DefaultDirectory(), nil
		}
		return config.LoadDirectory(configFile)
	}

	root.AddCommand(
		newClassifyCmd(),
		newRenderCmd(loadDirectory),
		newActionsCmd(loadDirectory),
		newTemplatesCmd(),
	)
	return root
}

func newClassifyCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify alert text",
		Long: `Classify alert text into revenue, traffic, errors, latency or data.

Reads the text from the arguments, or from stdin when none are given.

Examples:
  holmesctl classify "OVERSPEND detected"
  echo "5xx spike in eu-west" | holmesctl classify --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			}

			c := alert.New(alert.DefaultPatterns)
			cat, ok := c.Classify(text)
			out := cmd.OutOrStdout()

			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"detected": ok,
					"category": cat,
					"scores":   c.Scores(text),
				})
			}
			if !ok {
				_, err := fmt.Fprintln(out, "none")
				return err
			}
			_, err := fmt.Fprintln(out, cat)
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON with per-category scores")
	return cmd
}

func newRenderCmd(loadDirectory func() (*config.Directory, error)) *cobra.Command {
	var p render.Params

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a response template as Slack message JSON",
		Long: `Render a response template as the Block Kit JSON HOLMES would send.

Run 'holmesctl templates' for the list of names.

Examples:
  holmesctl render selection --user U0123456 --label "Traffic Drop"
  holmesctl render incident_alert --channel C0123456 --ts 1700000000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := loadDirectory()
			if err != nil {
				return err
			}
			msg, err := render.New(dir).Render(args[0], p)
			if err != nil {
				return err
			}
			b, err := msg.JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVar(&p.UserID, "user", "", "Slack user ID mentioned in the message")
	cmd.Flags().StringVar(&p.Label, "label", "", "Selected option label")
	cmd.Flags().StringVar(&p.Channel, "channel", "", "Source channel ID")
	cmd.Flags().Int64Var(&p.Timestamp, "ts", 0, "Unix timestamp shown in the message")
	return cmd
}

func newActionsCmd(loadDirectory func() (*config.Directory, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List registered action identifiers and their handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := loadDirectory()
			if err != nil {
				return err
			}
			list := actions.Default(render.New(dir), dir).List()
			ids := make([]string, 0, len(list))
			for id := range list {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, id := range ids {
				fmt.Fprintf(w, "%s\t%s\n", id, list[id])
			}
			return w.Flush()
		},
	}
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List response template names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range render.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
