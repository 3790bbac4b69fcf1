package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"owl-withings/internal/models"
)

// timeRange --since 或 --start/--end 二选一
type timeRange struct {
	since      time.Time
	start, end time.Time
	hasSince   bool
}

func addTimeRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("since", "", "Only return data updated after this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().String("start", "", "Start of the period (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End of the period (RFC3339 or YYYY-MM-DD), defaults to now")
	cmd.MarkFlagsMutuallyExclusive("since", "start")
	cmd.MarkFlagsMutuallyExclusive("since", "end")
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func parseTimeRange(cmd *cobra.Command, now time.Time) (timeRange, error) {
	since, _ := cmd.Flags().GetString("since")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return buildTimeRange(since, start, end, now)
}

func buildTimeRange(since, start, end string, now time.Time) (timeRange, error) {
	var (
		r   timeRange
		err error
	)
	if since != "" {
		r.hasSince = true
		r.since, err = parseTime(since)
		return r, err
	}
	if start == "" {
		return r, errors.New("either --since or --start is required")
	}
	if r.start, err = parseTime(start); err != nil {
		return r, err
	}
	r.end = now
	if end != "" {
		if r.end, err = parseTime(end); err != nil {
			return r, err
		}
	}
	if r.end.Before(r.start) {
		return r, fmt.Errorf("--end %s is before --start %s", r.end.Format(time.RFC3339), r.start.Format(time.RFC3339))
	}
	return r, nil
}

// parseMeasurementTypes 解析逗号分隔的类型编码，空串表示全部类型
func parseMeasurementTypes(s string) ([]models.MeasurementType, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	types := make([]models.MeasurementType, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid measurement type %q: %w", p, err)
		}
		types = append(types, models.MeasurementType(n))
	}
	return types, nil
}

// parseFields 解析逗号分隔的 data_fields，空串返回 nil
func parseFields[T ~string](s string) []T {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	fields := make([]T, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, T(p))
		}
	}
	return fields
}

func parseCategory(s string) (models.NotificationCategory, error) {
	if s == "" {
		return models.NotificationUnknown, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid notification category %q: %w", s, err)
	}
	return models.NotificationCategory(n), nil
}
