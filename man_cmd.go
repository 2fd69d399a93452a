package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, err := manPage()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), page)
		return err //nolint:wrapcheck
	},
}

func manPage() (string, error) {
	page, err := mcobra.NewManPage(1, rootCmd)
	if err != nil {
		return "", fmt.Errorf("unable to generate man page: %w", err)
	}
	page = page.WithSection("Environment", "TEXTREADER_CONFIG_HOME overrides the directory searched for textreader.yml.\n"+
		"Any configuration key can be set as TEXTREADER_<KEY>, for example TEXTREADER_OPENAI_API_KEY.\n"+
		"TEXTREADER_DEBUG enables debug logging.")
	return page.Build(roff.NewDocument()), nil
}
