package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wbreport/internal/dataprocessing"
	"wbreport/internal/exporter"
	"wbreport/internal/files"
	"wbreport/internal/infrastructure"
	"wbreport/internal/services"
	"wbreport/internal/validation"
	"wbreport/pkg/contracts/domain"
)

type runOptions struct {
	inDir     string
	costFile  string
	label     string
	outDir    string
	policy    string
	csv       bool
	noRegions bool
}

func newRunCmd(cc *cliContext) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Analyse report workbooks and write the summary workbook",
		Long: `Analyse weekly report workbooks and write <out>/<label>_summary.xlsx.

Report files are taken from the positional arguments (files, directories or
glob patterns) or, when none are given, from every .xlsx in --in. Previously
written summary workbooks and editor lock files are skipped.

Examples:
  wbreport run --in ./reports --cost cost.xlsx --label week45
  wbreport run "reports/2025-4*.xlsx" --payable-policy all_fees
  wbreport run week45.xlsx --csv --no-regions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), cmd.OutOrStdout(), cc, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.inDir, "in", ".", "directory searched for report workbooks when no files are given")
	cmd.Flags().StringVar(&opts.costFile, "cost", "", "purchase cost workbook (optional)")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "run label used as the output file prefix (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.policy, "payable-policy", "", "fees deducted from the final payable: platform_fees or all_fees (default from config)")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "also write one CSV per table under <out>/<label>_csv")
	cmd.Flags().BoolVar(&opts.noRegions, "no-regions", false, "skip the regional tables")
	return cmd
}

func runAnalysis(ctx context.Context, out io.Writer, cc *cliContext, opts *runOptions, args []string) error {
	cfg := cc.cfg.Analysis
	logger := cc.logger

	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if opts.policy != "" {
		cfg.PayablePolicy = opts.policy
	}
	if opts.noRegions {
		cfg.EnableRegional = false
	}
	exportCSV := opts.csv || cfg.ExportCSV

	discovery := files.NewDiscovery("", exporter.SummarySuffix)
	fileValidator := validation.NewFileValidator(logger)

	var reports []files.FileInfo
	var err error
	if len(args) > 0 {
		reports, err = discovery.Resolve(args)
	} else {
		if err := fileValidator.ValidateInputDirectory(opts.inDir); err != nil {
			return err
		}
		reports, err = discovery.FindReportFiles(opts.inDir)
	}
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		if len(args) > 0 {
			return fmt.Errorf("%w matching %s", services.ErrNoReportsFound, strings.Join(args, ", "))
		}
		return fmt.Errorf("%w in %s", services.ErrNoReportsFound, opts.inDir)
	}

	req := validation.AnalysisRequest{
		Label:         opts.label,
		PayablePolicy: cfg.PayablePolicy,
		TotalBytes:    files.TotalSize(reports),
	}
	for _, f := range reports {
		if err := fileValidator.ValidateWorkbookFile(f.Path); err != nil {
			return err
		}
		req.ReportNames = append(req.ReportNames, f.Name)
	}
	if opts.costFile != "" {
		if err := fileValidator.ValidateWorkbookFile(opts.costFile); err != nil {
			return err
		}
		req.CostName = filepath.Base(opts.costFile)
	}
	if err := validation.NewRequestValidator(0, 0).Validate(req); err != nil {
		return err
	}
	if err := fileValidator.ValidateOutputDirectory(cfg.OutputDir); err != nil {
		return err
	}

	svc, err := services.NewAnalysisServiceFromConfig(cfg, infrastructure.NoopProviders(logger), logger)
	if err != nil {
		return err
	}

	manager := files.NewManager(logger)
	opened, err := manager.OpenSources(reports)
	if err != nil {
		return err
	}
	defer opened.Close()

	label := exporter.SanitizeLabel(opts.label, cfg.DefaultLabel)
	in := services.AnalysisInput{
		Label:   label,
		Reports: opened.Sources,
		Options: services.OptionsFromConfig(cfg),
	}
	if opts.costFile != "" {
		f, name, err := manager.OpenFile(opts.costFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Cost = &dataprocessing.Source{Name: name, Reader: f}
	}

	report, err := svc.Analyze(ctx, in)
	if err != nil {
		return err
	}

	path, err := exporter.NewWorkbookWriter(logger).WriteFile(ctx, cfg.OutputDir, label, report)
	if err != nil {
		return err
	}

	var csvPaths []string
	if exportCSV {
		csvPaths, err = exporter.NewCSVWriter(logger).WriteReport(ctx, cfg.OutputDir, label, report)
		if err != nil {
			return err
		}
	}

	logger.DebugContext(ctx, "run outputs written",
		slog.String("workbook", path),
		slog.Int("csv_files", len(csvPaths)))

	return printRunSummary(out, report, path, csvPaths)
}

func printRunSummary(out io.Writer, report *domain.AnalysisReport, path string, csvPaths []string) error {
	fmt.Fprintf(out, "Analysed %d rows from %d file(s)\n", report.RecordCount, len(report.Sources))
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tPERIOD\tMARKET")
	for _, src := range report.SourceFiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", src.Name, src.Period, src.Market.DisplayName())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	for _, m := range services.Headline(report.Overview) {
		fmt.Fprintf(tw, "%s\t%s\n", m.Label, m.Value.String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nSummary written to %s\n", path)
	if len(csvPaths) > 0 {
		fmt.Fprintf(out, "CSV tables written to %s\n", filepath.Dir(csvPaths[0]))
	}
	return nil
}
