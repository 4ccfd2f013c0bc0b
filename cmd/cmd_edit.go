package cmd

import (
	"fmt"
	"os"

	"github.com/rubenv/osmgraph"
	"github.com/rubenv/osmgraph/graph"
)

type EditOptions struct {
	Save      bool   `long:"save" description:"Write the result back to the datastore"`
	Changeset string `long:"changeset" default:"0" description:"Changeset id for the osmChange output"`
}

// edit loads ids, applies fn and either saves the result or prints it as
// an osmChange document.
func edit(global *GlobalOptions, opts EditOptions, ids []string, fn func(env *osmgraph.Env) (*graph.Diff, error)) error {
	env, err := global.NewEnv()
	if err != nil {
		return err
	}
	defer env.Stop()

	err = env.Load(ids...)
	if err != nil {
		return err
	}

	d, err := fn(env)
	if err != nil {
		return err
	}
	env.Logger().Info("Edited", "changes", d.Len())

	if opts.Save {
		return env.Save()
	}
	_, err = env.Changes(opts.Changeset).WriteTo(os.Stdout)
	fmt.Println()
	return err
}

type CmdCircularize struct {
	global *GlobalOptions
	EditOptions
}

func init() {
	_, err := parser.AddCommand("circularize",
		"Make a closed way circular",
		"Turns a closed way into a circle, adding nodes where needed",
		&CmdCircularize{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdCircularize) Usage() string {
	return "[--save] way-id"
}

func (cmd *CmdCircularize) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("Way not specified, Usage: %s", cmd.Usage())
	}
	return edit(cmd.global, cmd.EditOptions, args, func(env *osmgraph.Env) (*graph.Diff, error) {
		return env.Circularize(args[0])
	})
}

type CmdMerge struct {
	global *GlobalOptions
	EditOptions
}

func init() {
	_, err := parser.AddCommand("merge",
		"Merge areas into a multipolygon",
		"Combines closed ways and multipolygons into a single multipolygon relation",
		&CmdMerge{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdMerge) Usage() string {
	return "[--save] id id..."
}

func (cmd *CmdMerge) Execute(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("Need at least two ids, Usage: %s", cmd.Usage())
	}
	return edit(cmd.global, cmd.EditOptions, args, func(env *osmgraph.Env) (*graph.Diff, error) {
		return env.Merge(args...)
	})
}
