package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"owl-withings/internal/aggregator"
	"owl-withings/internal/export"
	"owl-withings/internal/models"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices linked to the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}
		devices, err := client.GetDevices(cmd.Context())
		if err != nil {
			return err
		}
		return a.printJSON(devices)
	},
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show the user's goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}
		goals, err := client.GetGoals(cmd.Context())
		if err != nil {
			return err
		}
		return a.printJSON(goals)
	},
}

var measuresCmd = &cobra.Command{
	Use:   "measures",
	Short: "Fetch measurement groups",
	Long: `Fetch measurement groups either updated since a point in time (--since)
or taken within a period (--start/--end). With --latest the groups are reduced
to the most recent value per measurement type and position.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		r, err := parseTimeRange(cmd, time.Now())
		if err != nil {
			return err
		}
		typesStr, _ := cmd.Flags().GetString("types")
		types, err := parseMeasurementTypes(typesStr)
		if err != nil {
			return err
		}
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}

		var groups []models.MeasurementGroup
		if r.hasSince {
			groups, err = client.GetMeasurementSince(cmd.Context(), r.since, types)
		} else {
			groups, err = client.GetMeasurementInPeriod(cmd.Context(), r.start, r.end, types)
		}
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			data, err := export.MeasurementWorkbook(groups)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			a.logger.Info("Wrote measurement workbook", zap.String("path", path), zap.Int("group_count", len(groups)))
		}

		if latest, _ := cmd.Flags().GetBool("latest"); latest {
			return a.printJSON(aggregator.Entries(aggregator.AggregateMeasurements(groups)))
		}
		return a.printJSON(groups)
	},
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Fetch sleep intervals with high frequency series",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		r, err := parseTimeRange(cmd, time.Now())
		if err != nil {
			return err
		}
		if r.hasSince {
			return fmt.Errorf("sleep requires --start/--end")
		}
		fieldsStr, _ := cmd.Flags().GetString("fields")
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}
		series, err := client.GetSleep(cmd.Context(), r.start, r.end, parseFields[models.SleepDataField](fieldsStr))
		if err != nil {
			return err
		}
		return a.printJSON(series)
	},
}

var sleepSummaryCmd = &cobra.Command{
	Use:   "sleep-summary",
	Short: "Fetch sleep summaries",
	Long: `Fetch sleep summaries updated since --since or within the dates
--start/--end. With --merge the summaries are combined into a single night.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		r, err := parseTimeRange(cmd, time.Now())
		if err != nil {
			return err
		}
		fieldsStr, _ := cmd.Flags().GetString("fields")
		fields := parseFields[models.SleepSummaryDataField](fieldsStr)
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}

		var summaries []models.SleepSummary
		if r.hasSince {
			summaries, err = client.GetSleepSummarySince(cmd.Context(), r.since, fields)
		} else {
			summaries, err = client.GetSleepSummaryInPeriod(cmd.Context(), models.DateOf(r.start), models.DateOf(r.end), fields)
		}
		if err != nil {
			return err
		}

		if merge, _ := cmd.Flags().GetBool("merge"); merge {
			merged := aggregator.AggregateSleepSummaries(summaries)
			if merged == nil {
				a.logger.Info("No sleep summaries to merge")
			}
			return a.printJSON(merged)
		}
		return a.printJSON(summaries)
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Fetch daily activity aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		r, err := parseTimeRange(cmd, time.Now())
		if err != nil {
			return err
		}
		fieldsStr, _ := cmd.Flags().GetString("fields")
		fields := parseFields[models.ActivityDataField](fieldsStr)
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}

		var activities []models.Activity
		if r.hasSince {
			activities, err = client.GetActivitiesSince(cmd.Context(), r.since, fields)
		} else {
			activities, err = client.GetActivitiesInPeriod(cmd.Context(), models.DateOf(r.start), models.DateOf(r.end), fields)
		}
		if err != nil {
			return err
		}
		return a.printJSON(activities)
	},
}

var workoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Fetch workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		r, err := parseTimeRange(cmd, time.Now())
		if err != nil {
			return err
		}
		fieldsStr, _ := cmd.Flags().GetString("fields")
		fields := parseFields[models.WorkoutDataField](fieldsStr)
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}

		var workouts []models.Workout
		if r.hasSince {
			workouts, err = client.GetWorkoutsSince(cmd.Context(), r.since, fields)
		} else {
			workouts, err = client.GetWorkoutsInPeriod(cmd.Context(), models.DateOf(r.start), models.DateOf(r.end), fields)
		}
		if err != nil {
			return err
		}
		return a.printJSON(workouts)
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd, goalsCmd, measuresCmd, sleepCmd, sleepSummaryCmd, activityCmd, workoutsCmd)

	addTimeRangeFlags(measuresCmd)
	measuresCmd.Flags().String("types", "", "Comma-separated measurement type codes (default: all)")
	measuresCmd.Flags().Bool("latest", false, "Print only the most recent value per type and position")
	measuresCmd.Flags().String("xlsx", "", "Also write the groups to this Excel file")

	addTimeRangeFlags(sleepCmd)
	sleepCmd.Flags().String("fields", "", "Comma-separated sleep series fields")

	addTimeRangeFlags(sleepSummaryCmd)
	sleepSummaryCmd.Flags().String("fields", "", "Comma-separated summary data fields")
	sleepSummaryCmd.Flags().Bool("merge", false, "Merge the returned summaries into one")

	addTimeRangeFlags(activityCmd)
	activityCmd.Flags().String("fields", "", "Comma-separated activity data fields")

	addTimeRangeFlags(workoutsCmd)
	workoutsCmd.Flags().String("fields", "", "Comma-separated workout data fields")
}
