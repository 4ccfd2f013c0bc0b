package cmd

import (
	"fmt"
	"sort"
	"time"
)

type CmdReindex struct {
	global *GlobalOptions

	Quiet bool `short:"q" long:"quiet" description:"Don't print index statistics"`
}

func init() {
	_, err := parser.AddCommand("reindex",
		"Rebuild the tag index",
		"Drops the tag index and rebuilds it from the stored entities, then prints the number of entries per indexed tag",
		&CmdReindex{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdReindex) Execute(args []string) error {
	s, err := cmd.global.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	start := time.Now()
	err = s.Reindex()
	if err != nil {
		return fmt.Errorf("Failed to reindex: %w", err)
	}
	if cmd.Quiet {
		return nil
	}

	counts, err := s.IndexCounts()
	if err != nil {
		return err
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Printf("%-12s %d\n", tag, counts[tag])
	}
	fmt.Printf("Reindexed in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
