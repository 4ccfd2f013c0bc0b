package cmd

import (
	"context"
	"fmt"
)

type CmdApplyChange struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("apply-change",
		"Apply change file",
		"Applies an osmChange file (.osc or .osc.gz) to the datastore",
		&CmdApplyChange{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdApplyChange) Usage() string {
	return "change.osc.gz"
}

func (cmd CmdApplyChange) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("Change file not specified, Usage: %s", cmd.Usage())
	}

	s, err := cmd.global.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.ApplyChange(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("Failed to apply changes: %w", err)
	}
	return nil
}
