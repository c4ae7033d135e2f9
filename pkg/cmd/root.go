package cmd

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/cobrautil/v2/cobrazerolog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/authzed/normalizer/internal/logging"
)

func RegisterRootFlags(cmd *cobra.Command) {
	cobrazerolog.New().RegisterFlags(cmd.PersistentFlags())
}

// DefaultPreRunE sets up zerolog flag handling for a command.
func DefaultPreRunE() cobrautil.CobraRunFunc {
	return cobrautil.CommandStack(
		cobrazerolog.New(
			cobrazerolog.WithTarget(func(logger zerolog.Logger) {
				logging.SetGlobalLogger(logger)
			}),
		).RunE(),
	)
}

func NewRootCommand(programName string) *cobra.Command {
	return &cobra.Command{
		Use:           programName,
		Short:         "A boolean predicate normalizer",
		Long:          "Rewrites boolean predicate trees into simplified, conjunctive or disjunctive normal forms",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
}
