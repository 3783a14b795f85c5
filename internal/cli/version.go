package cli

import "github.com/spf13/cobra"

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the flashdeck version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			newOutput(cmd).Print(VersionResult{Version: Version})
			return nil
		},
	}
}
