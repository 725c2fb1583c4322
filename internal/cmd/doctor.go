package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/health"
	"github.com/reciplore/reciplore/internal/ux"
)

type doctorView struct {
	Status  health.Status   `json:"status" yaml:"status"`
	Reports []health.Report `json:"checks" yaml:"checks"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the backend, the credential store and the stored session",
		Long: `Run diagnostics in parallel and report each one. The stored session is
inspected locally; only the backend check makes a request. Exits non-zero
when any check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := health.NewManager().WithTimeout(timeout)
			manager.AddChecker(health.NewBackendChecker(a.client))
			manager.AddChecker(health.NewCookieStoreChecker(a.jar.Path()))
			manager.AddChecker(health.NewTokenChecker(a.jar))

			reports := manager.Check(cmd.Context())
			view := doctorView{Status: health.OverallStatus(reports), Reports: reports}

			err := a.render(ux.Document{
				Data: view,
				Text: func(w io.Writer, noColor bool) error {
					rows := make([][]string, 0, len(reports))
					for _, r := range reports {
						rows = append(rows, []string{r.Name, r.Status.String(), r.Message, r.Latency.Round(time.Millisecond).String()})
					}
					if err := ux.WriteTable(w, noColor, []string{"CHECK", "STATUS", "MESSAGE", "LATENCY"}, rows, "No checks."); err != nil {
						return err
					}
					_, err := fmt.Fprintf(w, "Overall: %s\n", view.Status)
					return err
				},
			})
			if err != nil {
				return err
			}

			if view.Status == health.StatusUnhealthy {
				return apperrors.New(apperrors.ErrCodeRequestFailed, apperrors.KindUnknown,
					"one or more checks are unhealthy")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", health.DefaultTimeout, "timeout per check")
	return cmd
}
