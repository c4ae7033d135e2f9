package main

import (
	"fmt"
	"os"

	"github.com/authzed/normalizer/pkg/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand("normalizer")
	cmd.RegisterRootFlags(rootCmd)

	var rewriteConfig cmd.RewriteConfig
	rewriteCmd := cmd.NewRewriteCommand(&rewriteConfig)
	cmd.RegisterRewriteFlags(rewriteCmd, &rewriteConfig)
	rootCmd.AddCommand(rewriteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
