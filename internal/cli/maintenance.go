package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/patientrecords/internal/service"
	"github.com/jask/patientrecords/internal/testdata"
)

func NewSeedCommand(root *RootOptions) *cobra.Command {
	var gen testdata.Options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo patients into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(root)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.seed(cmd.Context()); err != nil {
				return err
			}
			if gen.Patients > 0 {
				repos := testdata.Repos{Patients: e.patients, Cards: e.cards}
				cards, err := testdata.Seed(cmd.Context(), repos, gen)
				if err != nil {
					return fmt.Errorf("synthetic seed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "generated %d synthetic patients, %d cards\n", gen.Patients, cards)
			}
			n, err := e.patients.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d patients in database\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&gen.Patients, "synthetic", 0, "also generate this many synthetic patients")
	cmd.Flags().IntVar(&gen.MaxCards, "max-cards", 8, "most cards per synthetic patient")
	cmd.Flags().Uint64Var(&gen.Seed, "rand-seed", 1, "generator seed")
	return cmd
}

func NewResetCommand(root *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every patient and card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all data; pass --yes to confirm")
			}
			e, err := openEnv(root)
			if err != nil {
				return err
			}
			defer e.Close()
			svc := &service.MaintenanceService{DB: e.db}
			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
