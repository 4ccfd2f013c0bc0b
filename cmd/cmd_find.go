package cmd

import "fmt"

type CmdFind struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("find",
		"Find entities by tag",
		"Lists the ids of entities with an indexed tag (type, name, admin_level)",
		&CmdFind{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdFind) Usage() string {
	return "tag value"
}

func (cmd CmdFind) Execute(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	s, err := cmd.global.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ids, err := s.FindByTag(args[0], args[1])
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
