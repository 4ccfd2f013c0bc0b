package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rubenv/osmgraph/export"
)

type CmdExport struct {
	global *GlobalOptions

	GeoJSON bool `long:"geojson" description:"Write GeoJSON instead of TopoJSON"`
}

func init() {
	_, err := parser.AddCommand("export",
		"Export geometries",
		"Writes the geometries of the given entities as TopoJSON (or GeoJSON) to stdout",
		&CmdExport{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdExport) Usage() string {
	return "[--geojson] id..."
}

func (cmd *CmdExport) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("No ids given, Usage: %s", cmd.Usage())
	}

	env, err := cmd.global.NewEnv()
	if err != nil {
		return err
	}
	defer env.Stop()

	err = env.Load(args...)
	if err != nil {
		return err
	}

	var out interface{}
	if cmd.GeoJSON {
		out, err = export.FeatureCollection(env.Graph(), args)
	} else {
		out, err = env.Topology(args...)
	}
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(out)
}
