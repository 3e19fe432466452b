package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivoronin/prodfilter/internal/catalog"
	"github.com/ivoronin/prodfilter/internal/output"
	"github.com/ivoronin/prodfilter/internal/session"
)

const sessionHelp = `commands:
  property <id|name>   choose a property (resets operator and values)
  operator [id]        choose an operator, empty clears it
  values <a,b,...>     choose values from the property's value set
  value [text]         set the free-form value, empty clears it
  clear                clear the selection
  show                 print the current state
  properties           list properties
  operators            list operators for the chosen property
  help                 print this help
  quit                 end the session`

func newSessionCmd(a *app) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Build a filter step by step from commands on stdin",
		Long: `Read filter commands from stdin, one per line, and print the selection
and the matching products after each one. Type "help" for the command list.`,
		Args: cobra.NoArgs,
		Example: `  prodfilter session
  printf 'property category\noperator in\nvalues tools\n' | prodfilter session -j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			r := &repl{
				session:  session.New(c, session.WithLogger(a.log)),
				catalog:  c,
				out:      cmd.OutOrStdout(),
				errOut:   cmd.ErrOrStderr(),
				jsonMode: jsonMode,
			}
			return r.run(cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVarP(&jsonMode, "json", "j", false, "Print each state as one JSON line")
	return cmd
}

// repl maps input lines onto session transitions.
type repl struct {
	session  *session.Session
	catalog  *catalog.Catalog
	out      io.Writer
	errOut   io.Writer
	jsonMode bool
}

func (r *repl) run(in io.Reader) error {
	if err := r.print(r.session.State()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimLeft(scanner.Text(), " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")

		done, err := r.dispatch(strings.ToLower(name), rest)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return scanner.Err()
}

// dispatch runs one command. done reports whether the session should end.
func (r *repl) dispatch(name, rest string) (done bool, err error) {
	arg := strings.TrimSpace(rest)

	switch name {
	case "property":
		id := arg
		if p, err := resolveProperty(r.catalog, arg); err == nil {
			id = strconv.Itoa(p.ID)
		}
		return false, r.print(r.session.ChooseProperty(id))
	case "operator":
		return false, r.print(r.session.ChooseOperator(arg))
	case "values":
		return false, r.print(r.session.ChooseValues(splitValues(arg)))
	case "value":
		return false, r.print(r.session.ChooseScalar(rest))
	case "clear":
		return false, r.print(r.session.Clear())
	case "show":
		return false, r.print(r.session.State())
	case "properties":
		return false, r.list(&output.PropertyList{Properties: r.session.Properties()})
	case "operators":
		return false, r.list(&output.OperatorList{Operators: r.session.State().Operators})
	case "help":
		_, err := fmt.Fprintln(r.out, sessionHelp)
		return false, err
	case "quit", "exit":
		return true, nil
	default:
		fmt.Fprintf(r.errOut, "unknown command %q, type \"help\" for a list\n", name)
		return false, nil
	}
}

func (r *repl) print(state session.State) error {
	view := &output.StateView{Properties: r.catalog.Properties(), State: state}
	if r.jsonMode {
		data, err := view.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.out, string(data))
		return err
	}
	_, err := fmt.Fprintf(r.out, "%s\n\n", view.FormatText())
	return err
}

func (r *repl) list(f output.Formatter) error {
	result, err := output.FormatOutput(f, output.FormatFor(r.jsonMode))
	if err != nil {
		return err
	}
	if result == "" {
		return nil
	}
	_, err = fmt.Fprintln(r.out, result)
	return err
}
