package osmgraph

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/cheekybits/is"
)

func TestParseConfig(t *testing.T) {
	is := is.New(t)

	in := `
store:
    path: /var/lib/osmgraph
projection: identity
circularize:
    max_angle: 10
export:
    simplify: 5
log_level: debug
`

	cfg, err := ParseConfig(strings.NewReader(in))
	is.NoErr(err)
	is.NotNil(cfg)
	is.Equal(cfg.Store.Path, "/var/lib/osmgraph")
	is.False(cfg.Store.InMemory)
	is.Equal(cfg.Projection, "identity")
	is.Equal(cfg.Circularize.MaxAngle, 10.0)
	is.Equal(cfg.Export.Simplify, 5)
	is.Equal(cfg.Export.Quantize, 1e6)

	level, err := cfg.Level()
	is.NoErr(err)
	is.Equal(level, slog.LevelDebug)
}

func TestParseConfigDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := ParseConfig(strings.NewReader(""))
	is.NoErr(err)
	is.Equal(cfg, DefaultConfig())
	is.Equal(cfg.Circularize.MaxAngle, 20.0)
	is.Equal(cfg.Projection, "mercator")
}

func TestParseConfigInvalid(t *testing.T) {
	is := is.New(t)

	for _, in := range []string{
		"projection: albers",
		"circularize:\n    max_angle: 0",
		"log_level: chatty",
		"store: [",
	} {
		_, err := ParseConfig(strings.NewReader(in))
		is.Err(err)
	}
}
