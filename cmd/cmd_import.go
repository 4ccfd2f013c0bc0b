package cmd

import (
	"context"
	"fmt"

	"github.com/cheggaaa/pb"
	"github.com/rubenv/osmgraph/store"
)

type CmdImport struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("import",
		"import PBF files",
		"Imports full PBF dumps",
		&CmdImport{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdImport) Usage() string {
	return "data.osm.pbf"
}

func (cmd CmdImport) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("PBF file not specified, Usage: %s", cmd.Usage())
	}

	s, err := cmd.global.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	bar := pb.New64(0).Prefix("Entities ")
	bar.ShowPercent = false
	bar.ShowBar = false
	bar.ShowTimeLeft = false
	bar.ShowSpeed = true
	bar.Start()

	err = s.Import(context.Background(), args[0], func(p store.Progress) {
		bar.Set64(p.Nodes + p.Ways + p.Relations)
	})
	bar.Finish()
	if err != nil {
		return fmt.Errorf("Failed to import: %w", err)
	}

	return nil
}
