package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"trip-planner-service/internal/api/dto"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// formatter renders human-readable text output.
type formatter struct {
	w io.Writer
}

// writeOutput encodes v as JSON or YAML, or calls text for the text format,
// then writes the result to stdout or atomically to --out.
func writeOutput(cmd *cobra.Command, opts *RootOptions, v any, text func(*formatter) error) error {
	var buf bytes.Buffer

	switch opts.Output {
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		if err := text(&formatter{w: &buf}); err != nil {
			return err
		}
	}

	if opts.Out == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := renameio.WriteFile(opts.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.Out)
	return nil
}

func (f *formatter) simulation(res dto.SimulateResponse) error {
	for i, day := range res.Logs {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		fmt.Fprintf(f.w, "Day %d  %s\n", i+1, day.Date)

		tw := tabwriter.NewWriter(f.w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STATUS\tSTART\tEND\tMINUTES")
		for _, e := range day.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.Status, e.Start, e.End, e.Minutes)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		t := day.Totals
		fmt.Fprintf(f.w, "Totals: driving=%d on_duty_not_driving=%d off_duty=%d sleeper=%d\n",
			t.Driving, t.OnDutyNotDriving, t.OffDuty, t.Sleeper)
	}

	if len(res.Logs) == 0 {
		fmt.Fprintln(f.w, "No driving time; no duty days.")
	}
	fmt.Fprintf(f.w, "\nCycle hours used: %.2f\n", res.CycleHoursUsed)
	return nil
}

func (f *formatter) rules(r rulesView) error {
	tw := tabwriter.NewWriter(f.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Max driving per day\t%d min\n", r.MaxDrivingPerDay)
	fmt.Fprintf(tw, "Break after\t%d min driving\n", r.BreakThreshold)
	fmt.Fprintf(tw, "Break duration\t%d min\n", r.BreakDuration)
	fmt.Fprintf(tw, "Inter-day off duty\t%d min\n", r.InterDayOffDuty)
	fmt.Fprintf(tw, "Cycle limit\t%g h\n", r.CycleLimitHours)
	fmt.Fprintf(tw, "Restart\t%g h\n", r.RestartDurationHours)
	return tw.Flush()
}
