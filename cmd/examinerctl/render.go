package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
	"examiner-registry-backend/internal/service"
)

func renderThresholds(w io.Writer, thresholds domain.ThresholdConfig) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Subject", "Passes Above"})
	for _, s := range domain.Subjects {
		table.Append([]string{string(s), fmt.Sprintf("%d", thresholds.For(s))})
	}
	table.Render()
}

func renderReport(w io.Writer, report *service.Report) {
	fmt.Fprintln(w, color.YellowString("\nThreshold Report: %d of %d approved examiners match", len(report.Rows), report.Evaluated))

	header := []string{"SL", "Name", "Inst", "Dept"}
	for _, s := range report.Subjects {
		header = append(header, fmt.Sprintf("%s (>%d)", s, report.Thresholds.For(s)))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, row := range report.Rows {
		line := []string{
			serialText(row.Examiner.Serial),
			row.Examiner.FullName,
			row.Examiner.Institution,
			row.Examiner.Department,
		}
		for _, res := range row.Results {
			line = append(line, verdictText(res))
		}
		table.Append(line)
	}
	table.Render()
}

func renderAudit(w io.Writer, audit *service.SerialAudit) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Check", "Result"})
	table.Append([]string{"Approved records", fmt.Sprintf("%d", audit.Total)})
	table.Append([]string{"Highest serial", fmt.Sprintf("%d", audit.MaxSerial)})
	table.Append([]string{"Next serial", fmt.Sprintf("%d", audit.NextSerial)})

	serials := make([]int64, 0, len(audit.Duplicates))
	for sl := range audit.Duplicates {
		serials = append(serials, sl)
	}
	sort.Slice(serials, func(i, j int) bool { return serials[i] < serials[j] })
	for _, sl := range serials {
		table.Append([]string{fmt.Sprintf("Duplicate %d", sl), strings.Join(audit.Duplicates[sl], ", ")})
	}
	if len(audit.Missing) > 0 {
		table.Append([]string{"Without serial", strings.Join(audit.Missing, ", ")})
	}
	table.Render()

	if audit.Healthy() {
		fmt.Fprintln(w, color.GreenString("Serials are consistent"))
	} else {
		fmt.Fprintln(w, color.RedString("Serial problems found"))
	}
}

func serialText(sl int64) string {
	if sl <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", sl)
}

func verdictText(res eligibility.SubjectResult) string {
	switch res.Verdict {
	case eligibility.Allow:
		return color.GreenString("%s Allow", res.Score)
	case eligibility.NotAllow:
		return color.RedString("%s Not Allow", res.Score)
	case eligibility.Invalid:
		return color.YellowString("%s Invalid", res.Score)
	default:
		return "No Exam"
	}
}
