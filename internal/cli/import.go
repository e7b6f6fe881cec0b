package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/patientrecords/internal/service"
)

func NewImportCommand(root *RootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import patients from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = service.FormatFromPath(path)
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			e, err := openEnv(root)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := &service.ImportService{Patients: e.patients, Cards: e.cards}
			res, err := svc.Import(cmd.Context(), f, format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d patients, %d cards, skipped %d\n", res.Imported, res.Cards, res.Skipped)
			for _, err := range res.Errors {
				fmt.Fprintf(out, "  %s: %v\n", path, err)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d records failed", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from file extension)")
	return cmd
}
