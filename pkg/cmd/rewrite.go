package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/jzelinskie/stringz"
	"github.com/spf13/cobra"

	log "github.com/authzed/normalizer/internal/logging"
	"github.com/authzed/normalizer/pkg/normerrors"
	"github.com/authzed/normalizer/pkg/predicate"
	"github.com/authzed/normalizer/pkg/rewrite"
)

// Pipeline reduces a tree with a fixed list of rules.
type Pipeline func(e rewrite.Element, opts ...rewrite.ReduceOptionsOption) (rewrite.Element, error)

// DefaultPipeline is used when no pipeline is named.
const DefaultPipeline = "simplify"

// Pipelines are the pipelines selectable by name.
var Pipelines = map[string]Pipeline{
	"simplify":    rewrite.Simplify,
	"cnf":         rewrite.ToCNF,
	"dnf":         rewrite.ToDNF,
	"comparisons": rewrite.NormalizeComparisons,
	"enums":       rewrite.CollectEnums,
}

// RewriteConfig holds the flags of the rewrite command.
type RewriteConfig struct {
	Pipeline      string
	CanonicalKey  bool
	MaxIterations uint32
	DetectCycles  bool
}

func RegisterRewriteFlags(cmd *cobra.Command, config *RewriteConfig) {
	cmd.Flags().StringVar(&config.Pipeline, "pipeline", DefaultPipeline, fmt.Sprintf("pipeline to run (%s)", strings.Join(pipelineNames(), ", ")))
	cmd.Flags().BoolVar(&config.CanonicalKey, "canonical-key", false, "also print a key shared by every equivalent predicate")
	cmd.Flags().Uint32Var(&config.MaxIterations, "max-iterations", 100000, "maximum number of rewrites before aborting, 0 for no limit")
	cmd.Flags().BoolVar(&config.DetectCycles, "detect-cycles", false, "abort when a rewrite reproduces an earlier tree")
}

func NewRewriteCommand(config *RewriteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite FILE",
		Short: "rewrite a YAML predicate document",
		Long:  "Decodes a YAML predicate document, reduces it with the selected pipeline and prints the result. Use - to read from stdin.",
		Example: `  normalizer rewrite --pipeline cnf predicate.yaml
  echo 'not: {and: [{atom: a}, {atom: b}]}' | normalizer rewrite --pipeline dnf -`,
		PreRunE: DefaultPreRunE(),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			return config.Run(cmd.OutOrStdout(), args[0], source)
		},
		Args: cobra.ExactArgs(1),
	}
}

// Run decodes the document, reduces it and writes the result to out.
func (c *RewriteConfig) Run(out io.Writer, path string, source []byte) error {
	name := stringz.DefaultEmpty(c.Pipeline, DefaultPipeline)
	pipeline, ok := Pipelines[name]
	if !ok {
		return fmt.Errorf("unknown pipeline `%s`, expected one of: %s", name, strings.Join(pipelineNames(), ", "))
	}

	p, err := predicate.DecodeYAML(source)
	if err != nil {
		if serr, ok := normerrors.AsWithSourceError(err); ok {
			return fmt.Errorf("%s:%d:%d: %w", path, serr.LineNumber, serr.ColumnPosition, err)
		}
		return fmt.Errorf("%s: %w", path, err)
	}

	result, err := pipeline(rewrite.CreateTree(p),
		rewrite.WithMaxIterations(c.MaxIterations),
		rewrite.WithDetectCycles(c.DetectCycles),
	)
	if err != nil {
		return fmt.Errorf("failed to run pipeline %s: %w", name, err)
	}

	log.Debug().Str("pipeline", name).Stringer("input", p).Stringer("output", result).Msg("rewrote predicate")

	if _, err := fmt.Fprintln(out, result); err != nil {
		return err
	}

	if !c.CanonicalKey {
		return nil
	}

	key, err := rewrite.CanonicalKey(result)
	if err != nil {
		return fmt.Errorf("failed to compute canonical key: %w", err)
	}
	_, err = fmt.Fprintf(out, "canonical key: %s\n", key)
	return err
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predicate document: %w", err)
	}
	return source, nil
}

func pipelineNames() []string {
	return slices.Sorted(maps.Keys(Pipelines))
}
