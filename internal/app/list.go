package app

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/menta2k/poeticapic/pkg/border"
	"github.com/menta2k/poeticapic/pkg/caption"
	"github.com/menta2k/poeticapic/pkg/filter"
	"github.com/menta2k/poeticapic/pkg/overlay"
	"github.com/menta2k/poeticapic/pkg/pipeline"
)

func vocabularies() map[string][]string {
	return map[string][]string{
		"filters":   names(filter.Names()),
		"borders":   names(border.Variants()),
		"positions": names(overlay.Positions()),
		"kinds":     names(caption.Kinds()),
		"kernels":   pipeline.Kernels(),
	}
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func newListCommand() *cobra.Command {
	vocab := vocabularies()
	topics := make([]string, 0, len(vocab))
	for k := range vocab {
		topics = append(topics, k)
	}
	slices.Sort(topics)

	return &cobra.Command{
		Use:       "list [topic]",
		Short:     "List the accepted names",
		Long:      fmt.Sprintf("List the accepted names. Topics: %v", topics),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: topics,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			selected := topics
			if len(args) == 1 {
				selected = args
			}
			for _, topic := range selected {
				if len(selected) > 1 {
					fmt.Fprintf(w, "%s:\n", topic)
				}
				for _, name := range vocab[topic] {
					fmt.Fprintf(w, "  %s\n", name)
				}
			}
			return nil
		},
	}
}
