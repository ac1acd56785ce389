// Package rules prints the active categorization rules
package rules

import (
	"momoledger/momo-ingest/cmd/common"
	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/container"
	"momoledger/momo-ingest/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active categorization rules as YAML",
	Long: `Print the categorization rules in effect: the configured rules file when it
exists, the built-in rules otherwise. The output can be edited and used as a
rules file.`,
	Args: cobra.NoArgs,
	RunE: rulesFunc,
}

func rulesFunc(cmd *cobra.Command, args []string) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	c, err := container.NewPreviewContainerWithLogger(cfg, root.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	out, closeOut, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	return store.WriteRules(out, c.GetCategorizer().Rules())
}
