package cli

import (
	"fmt"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/services"

	"github.com/spf13/cobra"
)

type simulateOptions struct {
	start      string
	minutes    int
	cycleHours float64
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Produce the daily duty logs for a trip's driving minutes",
		Example: `  hosctl simulate --start 2026-01-05T08:00:00Z --minutes 1500 --cycle-hours 20
  hosctl simulate --start 2026-01-05T08:00 --minutes 900 -o yaml --out logs.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "trip start, RFC 3339 or naive ISO 8601 (UTC)")
	cmd.Flags().IntVar(&opts.minutes, "minutes", 0, "total driving minutes")
	cmd.Flags().Float64Var(&opts.cycleHours, "cycle-hours", 0, "hours already used in the 70-hour cycle")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func runSimulate(cmd *cobra.Command, rootOpts *RootOptions, opts *simulateOptions) error {
	start, err := dto.ParseStartDatetime(opts.start)
	if err != nil {
		return err
	}

	res, err := services.Simulate(start, opts.minutes, opts.cycleHours)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	view := dto.FromSimulation(res)
	return writeOutput(cmd, rootOpts, view, func(f *formatter) error {
		return f.simulation(view)
	})
}

// NewRulesCommand prints the thresholds the simulator applies.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the hours-of-service thresholds in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := services.DefaultRules()
			view := rulesView{
				MaxDrivingPerDay:     r.MaxDrivingPerDay,
				BreakThreshold:       r.BreakThreshold,
				BreakDuration:        r.BreakDuration,
				InterDayOffDuty:      r.InterDayOffDutyMinutes,
				CycleLimitHours:      r.CycleLimitHours,
				RestartDurationHours: r.RestartDurationHours,
			}
			return writeOutput(cmd, rootOpts, view, func(f *formatter) error {
				return f.rules(view)
			})
		},
	}
}

type rulesView struct {
	MaxDrivingPerDay     int     `json:"max_driving_per_day_min" yaml:"max_driving_per_day_min"`
	BreakThreshold       int     `json:"break_threshold_min" yaml:"break_threshold_min"`
	BreakDuration        int     `json:"break_duration_min" yaml:"break_duration_min"`
	InterDayOffDuty      int     `json:"inter_day_off_duty_min" yaml:"inter_day_off_duty_min"`
	CycleLimitHours      float64 `json:"cycle_limit_hours" yaml:"cycle_limit_hours"`
	RestartDurationHours float64 `json:"restart_duration_hours" yaml:"restart_duration_hours"`
}
