package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"irap/analyzer/internal/analysis"
	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/scoring"
	"irap/analyzer/internal/app/domains/services/svupload"
	"irap/analyzer/internal/app/pkg/idgen"
)

var (
	dataPath   = flag.String("data", "./tools/fasttest/testcase/sample_invoices.csv", "测试数据文件路径（CSV/JSON）")
	maxRows    = flag.Int("max-rows", dataproc.DefaultMaxRows, "最大分析行数")
	retention  = flag.Int("retention-days", 7, "报告保留天数")
	webhooks   = flag.Bool("webhooks", true, "问卷：是否支持 Webhook")
	sandboxEnv = flag.Bool("sandbox", true, "问卷：是否有沙箱环境")
	retries    = flag.Bool("retries", true, "问卷：是否支持重试")
	fullJSON   = flag.Bool("json", false, "输出完整报告 JSON")
)

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - 发票就绪度分析快速测试工具")
	fmt.Println("========================================")

	// 1. 读取测试数据
	content, err := os.ReadFile(*dataPath)
	if err != nil {
		fmt.Printf("❌ Failed to read data file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d bytes from %s\n", len(content), *dataPath)

	// 2. 解析（格式识别与 HTTP 上传路径一致）
	format := svupload.DetectFormat(filepath.Base(*dataPath), content)
	var rows []map[string]interface{}
	switch format {
	case "json":
		rows, err = svupload.ParseJSON(content)
	default:
		rows, err = svupload.ParseCSV(string(content))
	}
	if err != nil {
		fmt.Printf("❌ Failed to parse %s data: %v\n", format, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Parsed %d rows as %s\n", len(rows), format)

	// 3. 执行分析
	processed := dataproc.LimitRows(rows, *maxRows)
	if processed.Truncated {
		fmt.Printf("⚠️  Truncated to %d rows (total %d)\n", processed.ProcessedRows, processed.TotalRows)
	}

	analyzer := analysis.NewAnalyzer(*retention)
	startTime := time.Now()
	rep, err := analyzer.Analyze(context.Background(), &analysis.Input{
		UploadID: idgen.NewUploadID(),
		Data:     processed,
		Questionnaire: &scoring.Questionnaire{
			Webhooks:   *webhooks,
			SandboxEnv: *sandboxEnv,
			Retries:    *retries,
		},
	})
	if err != nil {
		fmt.Printf("❌ Analysis failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Analysis completed in %v\n", time.Since(startTime))

	// 4. 输出报告摘要
	fmt.Println("\n========================================")
	fmt.Println("  Report Summary")
	fmt.Println("========================================")
	fmt.Printf("ReportID: %s\n", rep.ReportID)
	fmt.Printf("Overall: %d (%s)\n", rep.Scores.Overall, rep.Scores.Readiness.Level)
	fmt.Printf("  Data:     %d\n", rep.Scores.Breakdown.Data)
	fmt.Printf("  Coverage: %d\n", rep.Scores.Breakdown.Coverage)
	fmt.Printf("  Rules:    %d\n", rep.Scores.Breakdown.Rules)
	fmt.Printf("  Posture:  %d\n", rep.Scores.Breakdown.Posture)

	fmt.Printf("\nField Coverage: %d matched / %d close / %d missing\n",
		rep.Coverage.Summary.Matched, rep.Coverage.Summary.Close, rep.Coverage.Summary.Missing)
	for _, m := range rep.Coverage.Missing {
		fmt.Printf("  ⚠️  missing: %s\n", m.GetsField)
	}

	fmt.Println("\nRule Results:")
	for _, r := range rep.Rules.Results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
		}
		fmt.Printf("  %s %s: %s\n", mark, r.Name, r.Details)
	}

	if len(rep.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range rep.Recommendations {
			fmt.Printf("  - [%s] %s\n", rec.Priority, rec.Title)
		}
	}

	// 5. 可选输出完整 JSON
	if *fullJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Printf("❌ Failed to marshal report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n========================================")
		fmt.Println("  Full Report JSON")
		fmt.Println("========================================")
		fmt.Println(string(data))
	}
}
