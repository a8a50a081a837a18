package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scenariokeeper/internal/document"
	"scenariokeeper/internal/session"
	"scenariokeeper/pkg/scenario"
)

type runFunc func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error

func newRootCommand() *cobra.Command {
	var configFile string
	withApp := func(fn runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := newApp(ctx, configFile)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return fn(ctx, a, cmd, args)
		}
	}

	root := &cobra.Command{
		Use:           "scenariokeeper",
		Short:         "Edit and safeguard scenario document sets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	root.AddCommand(
		newSetsCommand(withApp),
		newShowCommand(withApp),
		newRecordCommand(withApp),
		newAdvisorCommand(withApp),
		newCardCommand(withApp),
		newFieldCommand(withApp),
		newSaveCommand(withApp),
		newDiagnoseCommand(withApp),
		newBackupCommand(withApp),
		newMirrorCommand(withApp),
	)
	return root
}

type wrapper func(runFunc) func(*cobra.Command, []string) error

func newSetsCommand(with wrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List the configured document sets",
		Args:  cobra.NoArgs,
		RunE: with(func(_ context.Context, a *app, cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, id := range a.cfg.SetIDs() {
				fmt.Fprintf(tw, "%s\t%s\n", id, a.cfg.Sets[id].Path)
			}
			return tw.Flush()
		}),
	}
}

func newShowCommand(with wrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "show <set> [record]",
		Short: "List records of a set, or print one record as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if s == nil {
				return err
			}
			warnLoad(cmd, err)
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, id := range s.Document().IDs() {
					rec := s.Document()[id]
					fmt.Fprintf(tw, "%s\t%s %s\t%d advisors\t%d cards\n", id, rec.Icon, rec.Title, len(rec.Advisors), len(rec.ActionCards))
				}
				return tw.Flush()
			}
			rec, err := s.Editor().Record(s.Document(), args[1])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}),
	}
}

// mutate opens setID, applies fn and autosaves when the document changed.
func mutate(ctx context.Context, a *app, cmd *cobra.Command, setID string, fn func(*session.Session) error) error {
	s, err := a.openSession(ctx, setID)
	if err != nil {
		var perr *document.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("refusing to modify a malformed document (restore a backup first): %w", err)
		}
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	res, err := s.Autosave(ctx)
	if err != nil {
		return err
	}
	switch {
	case !res.Saved:
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")
	case res.Verified:
		fmt.Fprintln(cmd.OutOrStdout(), "saved")
	}
	return nil
}

func record(s *session.Session, id string) (*scenario.Record, error) {
	return s.Editor().Record(s.Document(), id)
}

func newRecordCommand(with wrapper) *cobra.Command {
	cmd := &cobra.Command{Use: "record", Short: "Create or delete records"}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <set> <id> <title>",
		Short: "Create a record from the default template",
		Args:  cobra.MinimumNArgs(3),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			id := scenario.NormalizeRecordID(args[1])
			title := strings.Join(args[2:], " ")
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				_, err := s.Editor().CreateRecord(s.Document(), id, title)
				return err
			})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <set> <id>",
		Short: "Delete a record; absent ids are ignored",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				s.Editor().DeleteRecord(s.Document(), args[1])
				return nil
			})
		}),
	})
	return cmd
}

func newAdvisorCommand(with wrapper) *cobra.Command {
	cmd := &cobra.Command{Use: "advisor", Short: "Append or remove advisors"}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <set> <record>",
		Short: "Append a blank advisor",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				rec, err := record(s, args[1])
				if err != nil {
					return err
				}
				s.Editor().AppendAdvisor(rec)
				return nil
			})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <set> <record>",
		Short: "Remove the last advisor",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				rec, err := record(s, args[1])
				if err != nil {
					return err
				}
				s.Editor().RemoveLastAdvisor(rec)
				return nil
			})
		}),
	})
	return cmd
}

func newCardCommand(with wrapper) *cobra.Command {
	cmd := &cobra.Command{Use: "card", Short: "Append or remove action cards"}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <set> <record>",
		Short: "Append an action card with the next free id",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				rec, err := record(s, args[1])
				if err != nil {
					return err
				}
				card := s.Editor().AppendActionCard(rec)
				fmt.Fprintf(c.OutOrStdout(), "added card %s\n", card.ID)
				return nil
			})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <set> <record>",
		Short: "Remove the last action card",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				rec, err := record(s, args[1])
				if err != nil {
					return err
				}
				s.Editor().RemoveLastActionCard(rec)
				return nil
			})
		}),
	})
	return cmd
}

func newFieldCommand(with wrapper) *cobra.Command {
	cmd := &cobra.Command{Use: "field", Short: "Update a single field"}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <set> <record> <path> <value>",
		Short: "Validate and assign a field, e.g. action_cards[0].speed slow",
		Args:  cobra.ExactArgs(4),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			return mutate(ctx, a, c, args[0], func(s *session.Session) error {
				rec, err := record(s, args[1])
				if err != nil {
					return err
				}
				if err := s.Editor().UpdateField(rec, args[2], args[3]); err != nil {
					return err
				}
				return scenario.ValidateCardIDs(rec)
			})
		}),
	})
	return cmd
}

func newSaveCommand(with wrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "save <set>",
		Short: "Rewrite and verify the document file",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := s.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d records (verified=%t)\n", len(s.Document()), ok)
			return nil
		}),
	}
}

func newDiagnoseCommand(with wrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <set>",
		Short: "Report the state of the document file",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if s == nil {
				return err
			}
			d := s.Diagnose()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "set\t%s\n", d.SetID)
			fmt.Fprintf(tw, "path\t%s\n", d.Path)
			fmt.Fprintf(tw, "exists\t%t\n", d.Exists)
			if d.Exists {
				fmt.Fprintf(tw, "size\t%s\n", humanize.Bytes(uint64(d.Size)))
				fmt.Fprintf(tw, "modified\t%s (%s)\n", d.ModTime.Format("2006-01-02 15:04:05"), humanize.Time(d.ModTime))
			}
			fmt.Fprintf(tw, "records\t%d\n", d.DiskRecords)
			if d.LoadError != nil {
				fmt.Fprintf(tw, "error\t%v\n", d.LoadError)
			}
			if backups, err := s.Backups(ctx); err == nil {
				fmt.Fprintf(tw, "backups\t%d\n", len(backups))
			}
			return tw.Flush()
		}),
	}
}

func newBackupCommand(with wrapper) *cobra.Command {
	cmd := &cobra.Command{Use: "backup", Short: "Create, list and restore backups"}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <set>",
		Short: "Copy the document file into the backup store",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if s == nil {
				return err
			}
			name, err := s.Backup(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), name)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <set>",
		Short: "List backups, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if s == nil {
				return err
			}
			list, err := s.Backups(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, b := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, humanize.Bytes(uint64(b.Size)), humanize.Time(b.CreatedAt))
			}
			return tw.Flush()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restore <set> <backup>",
		Short: "Overwrite the document file with a backup",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if s == nil {
				return err
			}
			if err := s.Restore(ctx, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "restored %s (%d records)\n", args[1], len(s.Document()))
			return nil
		}),
	})
	return cmd
}

func newMirrorCommand(with wrapper) *cobra.Command {
	cmd := &cobra.Command{Use: "mirror", Short: "Publish to or inspect the read-model mirror"}
	cmd.AddCommand(&cobra.Command{
		Use:   "push <set>",
		Short: "Publish the document file to the mirror",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			s, err := a.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.mirror.Publish(ctx, s.SetID(), s.Document()); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "published %d records to %s\n", len(s.Document()), a.mirror.Driver())
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [set]",
		Short: "List mirrored sets, or summarise one",
		Args:  cobra.MaximumNArgs(1),
		RunE: with(func(ctx context.Context, a *app, c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if len(args) == 0 {
				ids, err := a.mirror.List(ctx)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			snap, err := a.mirror.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d records, updated %s\n", snap.SetID, len(snap.Document), humanize.Time(snap.UpdatedAt))
			return nil
		}),
	})
	return cmd
}

func warnLoad(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}
