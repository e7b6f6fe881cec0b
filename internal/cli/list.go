package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/patientrecords/internal/records"
	"github.com/jask/patientrecords/internal/tui"
)

// ListOptions are the filters printed by the list command.
type ListOptions struct {
	Search string
	From   string
	To     string
	Asc    bool
	Page   int
}

func NewListCommand(root *RootOptions) *cobra.Command {
	opts := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of patients and their first card page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(root)
			if err != nil {
				return err
			}
			defer e.Close()

			patients, err := e.loader().Load(cmd.Context())
			if err != nil {
				return err
			}
			vm := records.New(patients,
				records.WithPageSize(e.cfg.UI.PageSize),
				records.WithConsultationPageSize(e.cfg.UI.ConsultationPageSize),
			)
			if err := applyListOptions(vm, opts, time.Now()); err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), vm, e.cfg.UI.DateFormat)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&opts.From, "from", "", "earliest card date, YYYY-MM-DD or today")
	cmd.Flags().StringVar(&opts.To, "to", "", "latest card date, YYYY-MM-DD or today")
	cmd.Flags().BoolVar(&opts.Asc, "asc", false, "oldest cards first")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "patient page")
	return cmd
}

// applyListOptions drives vm the same way the interactive browser does.
func applyListOptions(vm *records.ViewModel, opts *ListOptions, now time.Time) error {
	dates, err := tui.ParseDateRange(dateRange(opts.From, opts.To), now, time.UTC)
	if err != nil {
		return err
	}
	vm.ApplyFilter(records.FilterChange{Search: &opts.Search, Dates: &dates})
	if opts.Asc {
		vm.ToggleSortOrder()
	}
	vm.SetCurrentPage(opts.Page)
	return nil
}

func dateRange(from, to string) string {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return ""
	}
	return from + ".." + to
}

func printPage(w io.Writer, vm *records.ViewModel, dateFormat string) {
	if dateFormat == "" {
		dateFormat = time.DateOnly
	}
	page := vm.PaginatedPatients()
	fmt.Fprintf(w, "page %d/%d, %d matching patients\n", vm.CurrentPage(), max(vm.TotalPages(), 1), len(vm.FilteredPatients()))
	if len(page) == 0 {
		fmt.Fprintln(w, "no patients match")
		if name, ok := vm.Suggestion(); ok {
			fmt.Fprintf(w, "did you mean %s?\n", name)
		}
		return
	}
	for _, p := range page {
		fmt.Fprintf(w, "\n%s  (%d cards, page 1/%d)\n", p.Name, len(vm.FilteredAndSortedCards(p)), vm.TotalConsultationPages(p))
		for _, c := range vm.PaginatedFilteredCards(p) {
			line := fmt.Sprintf("  %s  %s", c.Date.Format(dateFormat), c.Title)
			if c.Practitioner != "" {
				line += "  (" + c.Practitioner + ")"
			}
			fmt.Fprintln(w, line)
		}
	}
}
