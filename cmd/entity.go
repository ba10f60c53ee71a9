package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// editor is what the dashboard screens offer a command.
type editor[E any, F any] interface {
	Mount(ctx context.Context) error
	Items() []E
	New() error
	Edit(ctx context.Context, id string) error
	Update(fn func(*F) error) error
	Form() F
	Save(ctx context.Context) (E, error)
	RequestDelete(id string) error
	CancelDelete()
	ConfirmDelete(ctx context.Context) error
}

// entityCommands describes one catalog entity on the command line.
type entityCommands[E any, F any, S editor[E, F]] struct {
	use    string
	short  string
	open   func() S
	id     func(E) string
	formID func(F) string
	label  func(E) string
	// flags registers the entity's edit flags; apply applies the ones that were set.
	flags func(*cobra.Command)
	apply func(cmd *cobra.Command, s S) error
}

func (e entityCommands[E, F, S]) command() *cobra.Command {
	parent := &cobra.Command{Use: e.use, Short: e.short}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every " + e.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := e.open()
			if err := s.Mount(cmd.Context()); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, item := range s.Items() {
				fmt.Fprintf(tw, "%s\t%s\n", e.id(item), e.label(item))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the edit form of one " + e.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := e.open()
			if err := s.Mount(cmd.Context()); err != nil {
				return err
			}
			if err := s.Edit(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), s.Form())
		},
	}

	template := &cobra.Command{
		Use:   "new",
		Short: "Print an empty " + e.use + " form to fill in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := e.open()
			if err := s.New(); err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), s.Form())
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + e.use + " from a form file and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.save(cmd, "")
		},
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a " + e.use + "; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.save(cmd, args[0])
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + e.use + " after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := e.open()
			if err := s.Mount(cmd.Context()); err != nil {
				return err
			}
			if err := s.RequestDelete(args[0]); err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %s %s?", e.use, args[0])) {
				s.CancelDelete()
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := s.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", e.use, args[0])
			return nil
		},
	}
	del.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringP("file", "f", "", "YAML or JSON form file")
		if e.flags != nil {
			e.flags(c)
		}
	}

	parent.AddCommand(list, show, template, create, update, del)
	return parent
}

func (e entityCommands[E, F, S]) save(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	s := e.open()
	if err := s.Mount(ctx); err != nil {
		return err
	}
	if id == "" {
		if err := s.New(); err != nil {
			return err
		}
	} else if err := s.Edit(ctx, id); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if err := s.Update(func(f *F) error { return overlayFile(path, f) }); err != nil {
			return err
		}
		if err := e.checkFormID(s.Form(), id); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if e.apply != nil {
		if err := e.apply(cmd, s); err != nil {
			return err
		}
	}

	saved, err := s.Save(ctx)
	if err != nil {
		return err
	}
	verb := "Updated"
	if id == "" {
		verb = "Created"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, e.use, e.id(saved))
	return nil
}

// checkFormID stops a form file from redirecting the write to another entity.
func (e entityCommands[E, F, S]) checkFormID(f F, id string) error {
	got := e.formID(f)
	switch {
	case got == id:
		return nil
	case id == "":
		return fmt.Errorf("form carries %s id %q; use \"%s update %s\" to edit it", e.use, got, e.use, got)
	default:
		return fmt.Errorf("form id %q does not match %q", got, id)
	}
}

// overlayFile decodes a YAML or JSON form file over f, so keys missing from
// the file keep their current values.
func overlayFile(path string, f interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc == nil {
		return nil
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := json.Unmarshal(asJSON, f); err != nil {
		return fmt.Errorf("applying %s: %w", path, err)
	}
	return nil
}

// printYAML writes v through its JSON form so field names match the API's.
func printYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
