package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appinspect "github.com/bryanwahyu/tvp-inspect/internal/application/inspection"
	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
	"github.com/bryanwahyu/tvp-inspect/internal/middleware"
)

var (
	area      string
	category  string
	point     string
	value     string
	status    string
	note      string
	submitter string
	tag       string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configured store and the area grids",
	Long: `Creates the store named in the config on SQL backends and lays out the
header column of every configured area grid. Safe to run repeatedly.`,
	RunE: runInit,
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Write one reading into today's column",
	RunE:  runSubmit,
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show today's completion list for an area",
	RunE:  runProgress,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Blank today's reading for a tag",
	RunE:  runClear,
}

func init() {
	for _, c := range []*cobra.Command{submitCmd, progressCmd, clearCmd} {
		c.Flags().StringVarP(&area, "area", "a", "", "Plant area, e.g. TN5 (required)")
		_ = c.MarkFlagRequired("area")
	}

	submitCmd.Flags().StringVar(&category, "category", "", "Point category (required)")
	submitCmd.Flags().StringVar(&point, "point", "", "Point name (required)")
	submitCmd.Flags().StringVar(&value, "value", "", "Reading text; free text is accepted for boolean points")
	submitCmd.Flags().StringVar(&status, "status", "", "normal or abnormal, for boolean points")
	submitCmd.Flags().StringVar(&note, "note", "", "Optional note")
	submitCmd.Flags().StringVar(&submitter, "submitter", "", "Operator name recorded with the reading")
	_ = submitCmd.MarkFlagRequired("category")
	_ = submitCmd.MarkFlagRequired("point")

	clearCmd.Flags().StringVar(&tag, "tag", "", `Tag as "<category> - <point>" (required)`)
	_ = clearCmd.MarkFlagRequired("tag")
}

// withService opens the configured backend for one command.
func withService(ctx context.Context, fn func(*appinspect.Service, *grid) error) error {
	g, err := openGrid(ctx, cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	svc, err := newService(cfg, g, nil, logger)
	if err != nil {
		return err
	}
	return fn(svc, g)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withService(ctx, func(svc *appinspect.Service, g *grid) error {
		if err := g.CreateStore(ctx, cfg.Store.Name); err != nil {
			return fmt.Errorf("create store: %w", err)
		}
		for _, a := range svc.Areas() {
			if _, err := svc.Resolver().EnsureWorksheet(ctx, a); err != nil {
				return err
			}
			logger.Info("grid ready", zap.String("store", cfg.Store.Name), zap.String("worksheet", a.WorksheetTitle()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "store %q ready with %d areas\n", cfg.Store.Name, len(svc.Areas()))
		return nil
	})
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withService(ctx, func(svc *appinspect.Service, _ *grid) error {
		sub := appinspect.Submission{
			Area:      area,
			Category:  middleware.SanitizeString(category),
			Point:     middleware.SanitizeString(point),
			Note:      middleware.SanitizeString(note),
			Submitter: middleware.SanitizeString(submitter),
		}
		text := middleware.SanitizeString(value)
		for _, check := range []error{
			middleware.ValidateValue(text),
			middleware.ValidateNote(sub.Note),
			middleware.ValidateOperator(sub.Submitter),
		} {
			if check != nil {
				return check
			}
		}

		p, err := svc.Catalog().Lookup(sub.Category, sub.Point)
		if err != nil {
			return err
		}
		if sub.Reading, err = cliReading(p, text, status); err != nil {
			return err
		}

		receipt, err := svc.Submit(ctx, sub)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(receipt)
	})
}

// cliReading follows the HTTP submit rules: ranged points need a value,
// boolean points take --status first and fall back to free text.
func cliReading(p domain.InspectionPoint, text, st string) (domain.Reading, error) {
	if !p.IsBoolean() {
		if text == "" {
			return domain.Reading{}, fmt.Errorf("a reading is required for %s", p.Tag())
		}
		return domain.Reading{Value: text}, nil
	}
	if st = strings.TrimSpace(st); st != "" {
		parsed := domain.Status(strings.ToLower(st))
		if !parsed.Valid() {
			return domain.Reading{}, fmt.Errorf("status must be %q or %q", domain.StatusNormal, domain.StatusAbnormal)
		}
		return domain.Reading{Status: parsed}, nil
	}
	if text == "" {
		return domain.Reading{}, fmt.Errorf("a status is required for %s", p.Tag())
	}
	return domain.ReadingFromText(p, text), nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withService(ctx, func(svc *appinspect.Service, _ *grid) error {
		rep, err := svc.Progress(ctx, area)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !rep.Started {
			fmt.Fprintf(out, "%s %s: not started (0/%d)\n", rep.Area, rep.Date, rep.Total)
			return nil
		}
		fmt.Fprintf(out, "%s %s: %d/%d complete\n", rep.Area, rep.Date, rep.Completed, rep.Total)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, it := range rep.Items {
			mark := "missing"
			switch {
			case it.Anomalous:
				mark = "anomalous"
			case it.Complete:
				mark = "done"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, it.Tag, it.Value)
		}
		return tw.Flush()
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withService(ctx, func(svc *appinspect.Service, _ *grid) error {
		if err := svc.Clear(ctx, area, domain.Tag(tag)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s in %s\n", tag, area)
		return nil
	})
}
