package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/export"
)

type CmdGet struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("get",
		"Get items",
		"Get items from datastore",
		&CmdGet{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdGet) Usage() string {
	return "[entity|geometry] id"
}

func (cmd CmdGet) Execute(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}
	id := args[1]
	if _, ok := entity.KindOf(id); !ok {
		return fmt.Errorf("Bad id %q, expected n123, w123 or r123", id)
	}

	switch args[0] {
	case "entity":
		s, err := cmd.global.OpenStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.Get(id)
		if err != nil {
			return fmt.Errorf("Failed to get entity: %w", err)
		}
		if e == nil {
			return fmt.Errorf("Unknown entity: %s", id)
		}

		fmt.Printf("%# v\n", pretty.Formatter(entity.ToRecord(e)))
	case "geometry":
		env, err := cmd.global.NewEnv()
		if err != nil {
			return err
		}
		defer env.Stop()

		err = env.Load(id)
		if err != nil {
			return err
		}

		g := env.Graph()
		f, err := export.Feature(g, g.MustEntity(id))
		if err != nil {
			return err
		}

		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		os.Stdout.Write(b)
		os.Stdout.WriteString("\n")
	default:
		return fmt.Errorf("Unknown type %s, Usage: %s", args[0], cmd.Usage())
	}

	return nil
}
