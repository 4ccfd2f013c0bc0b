package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rubenv/osmgraph"
	"github.com/rubenv/osmgraph/store"
)

type GlobalOptions struct {
	DataStore string `short:"d" long:"datastore" description:"Data store path"`
	Config    string `short:"c" long:"config" description:"Config file path"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) LoadConfig() (*osmgraph.Config, error) {
	config := osmgraph.DefaultConfig()
	if g.Config != "" {
		c, err := osmgraph.ReadConfig(g.Config)
		if err != nil {
			return nil, fmt.Errorf("Failed to read config: %w", err)
		}
		config = c
	}
	if g.DataStore != "" {
		config.Store.Path = g.DataStore
	}
	if config.Store.Path == "" && !config.Store.InMemory {
		return nil, errors.New("No datastore specified")
	}
	return config, nil
}

func (g *GlobalOptions) OpenStore() (*store.Store, error) {
	config, err := g.LoadConfig()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(store.Config{
		Path:       config.Store.Path,
		InMemory:   config.Store.InMemory,
		SyncWrites: config.Store.SyncWrites,
		Logger:     config.NewLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to open store: %w", err)
	}
	return s, nil
}

func (g *GlobalOptions) NewEnv() (*osmgraph.Env, error) {
	config, err := g.LoadConfig()
	if err != nil {
		return nil, err
	}

	env, err := osmgraph.NewEnv(config, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to open store: %w", err)
	}
	return env, nil
}
