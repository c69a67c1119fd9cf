package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/company_compass/app/compass/pkg/engine"
	"github.com/iWorld-y/company_compass/app/compass/pkg/logger"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/render"
)

var (
	genCompany string
	genCountry string
	genOut     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one report and write it as HTML and PDF",
	Long: `Generate one report and write Informe_<company>.html and Informe_<company>.pdf.

Examples:
  compass generate --company "Acme Corp" --country Chile
  compass generate --company "Acme Corp" --out ./informes`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genCompany, "company", "", "company name (required)")
	generateCmd.Flags().StringVar(&genCountry, "country", "", "country")
	generateCmd.Flags().StringVar(&genOut, "out", "", "output directory (default: pdf.output_dir)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req := model.ReportRequest{Company: genCompany, Country: genCountry}.Normalized()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := req.Validate(cfg.Report.RequireCountry); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, cleanup, err := engine.New(ctx, cfg, logger.Log)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := eng.Run(ctx, engine.RunOptions{
		Request: req,
		ProgressCallback: func(status string, progress int) {
			logger.Log.Infof("[%3d%%] %s", progress, status)
		},
	})
	if err != nil {
		return err
	}

	dir := genOut
	if dir == "" {
		dir = cfg.PDF.OutputDir
	}
	out := cmd.OutOrStdout()

	htmlPath, err := render.WriteFile(dir, render.HTMLFileName(req.Company), report.HTML)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, htmlPath)

	if !report.PDFAvailable() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: PDF no disponible: %v\n", report.PDFErr)
		return nil
	}
	pdfPath, err := render.WriteFile(dir, report.FileName, report.PDF)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, pdfPath)
	return nil
}
