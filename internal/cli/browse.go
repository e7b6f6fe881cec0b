package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jask/patientrecords/internal/records"
	"github.com/jask/patientrecords/internal/tui"
)

func NewBrowseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive patient browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if err := e.seed(ctx); err != nil {
				return err
			}

			layers, err := tui.ParseLayers(e.cfg.UI.ThemeLayers)
			if err != nil {
				return fmt.Errorf("ui.theme_layers: %w", err)
			}
			loc, err := time.LoadLocation(e.cfg.UI.Timezone)
			if err != nil {
				log.Warn().Err(err).Str("timezone", e.cfg.UI.Timezone).Msg("using local timezone")
				loc = time.Local
			}

			vm := records.New(nil,
				records.WithPageSize(e.cfg.UI.PageSize),
				records.WithConsultationPageSize(e.cfg.UI.ConsultationPageSize),
				records.WithLogger(log.Logger),
			)
			app := tui.New(ctx, vm, e.loader(), tui.Options{
				DateFormat: e.cfg.UI.DateFormat,
				Location:   loc,
				Layers:     layers,
			})

			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
