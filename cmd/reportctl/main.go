// Package main provides the command line interface for building and sharing reports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/extractors"
	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/processor"
	"github.com/LilVoxy/survey_report/summarizer"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/LilVoxy/survey_report/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outputPath string
	reportDate string
	scaleMax   float64
	sheetName  string
	password   string
	baseURL    string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "reportctl",
		Short:        "Build survey engagement reports and share them as encrypted links",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [export.xlsx|rows.json]",
		Short: "Aggregate a survey export into a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&reportDate, "date", "", "Report date shown in the metadata")
	analyzeCmd.Flags().Float64Var(&scaleMax, "scale-max", 0, "Maximum of the scoring scale (default from config)")
	analyzeCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to read (default: first sheet)")
	analyzeCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	shareCmd := &cobra.Command{
		Use:   "share [report.json]",
		Short: "Encrypt a report into a share payload and link",
		Args:  cobra.ExactArgs(1),
		RunE:  runShare,
	}
	shareCmd.Flags().StringVarP(&password, "password", "p", "", "Password protecting the link")
	shareCmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL of the dashboard (default from config)")
	_ = shareCmd.MarkFlagRequired("password")

	openCmd := &cobra.Command{
		Use:   "open [payload|url]",
		Short: "Decrypt a share payload back into the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runOpen,
	}
	openCmd.Flags().StringVarP(&password, "password", "p", "", "Password of the link")
	openCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	openCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	_ = openCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(analyzeCmd, shareCmd, openCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := utils.NewLogger(cfg.EnableDetailedLogging)
	defer logger.Sync()

	rows, err := readRows(args[0])
	if err != nil {
		return err
	}

	client, err := summarizer.New(cfg.Summarizer, logger)
	if err != nil {
		logger.Warn("Summarization service disabled: %v", err)
	}
	transformer := transform.NewTransformer(client, logger, cfg.Summarizer.Timeout)

	meta := models.ReportMetadata{
		ReportDate:  reportDate,
		ScaleMax:    scaleMax,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		SourceName:  filepath.Base(args[0]),
	}
	if meta.ScaleMax <= 0 {
		meta.ScaleMax = cfg.Report.ScaleMax
	}

	report := transformer.Transform(context.Background(), rows, meta)
	return writeJSON(report)
}

func readRows(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return extractors.LoadJSONRows(f)
	}
	return extractors.ExtractSheetRows(f, sheetName)
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < processor.MinSharePasswordLength {
		return fmt.Errorf("password must be at least %d characters", processor.MinSharePasswordLength)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s does not contain valid JSON", args[0])
	}

	payload, err := processor.EncodePayload(json.RawMessage(data), password)
	if err != nil {
		return err
	}

	if baseURL == "" {
		baseURL = cfg.Report.ShareBaseURL
	}
	fmt.Fprintln(cmd.OutOrStdout(), payload)
	fmt.Fprintln(cmd.OutOrStdout(), processor.ShareURL(baseURL, payload))
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	doc, err := processor.DecodePayloadRaw(processor.ParseShareFragment(args[0]), password)
	if err != nil {
		return err
	}
	return writeJSON(doc)
}

func writeJSON(v interface{}) error {
	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
