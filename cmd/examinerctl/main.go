package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"examiner-registry-backend/internal/app"
	"examiner-registry-backend/internal/config"
	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/security"
)

const usage = `Usage: examinerctl [-config path] <command> [flags]

Commands:
  token        -email <addr> [-ttl 8h]     issue an admin bearer token
  next-serial                              print the next serial number
  audit                                    check approved serials for duplicates and gaps
  thresholds                               print the effective subject thresholds
  report       [-subjects English,Math] [-inst DU,BUET] [-dept ...] [-batch ...]
                                           print the threshold report
`

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		color.Yellow("Failed to read .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Initialize("warn", cfg.Log.Format)

	if err := run(context.Background(), cfg, flag.Arg(0), flag.Args()[1:], os.Stdout); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, command string, args []string, out io.Writer) error {
	switch command {
	case "token":
		return issueToken(cfg, args, out)
	case "thresholds":
		renderThresholds(out, cfg.ThresholdConfig())
		return nil
	case "next-serial", "audit", "report":
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	switch command {
	case "next-serial":
		sl, err := application.Serials.NextSerial(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", sl)
		return nil
	case "audit":
		audit, err := application.Serials.Audit(ctx)
		if err != nil {
			return err
		}
		renderAudit(out, audit)
		return nil
	default:
		criteria, err := parseReportFlags(args)
		if err != nil {
			return err
		}
		report, err := application.Examiners.Report(ctx, criteria, nil)
		if err != nil {
			return err
		}
		renderReport(out, report)
		return nil
	}
}

func issueToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	email := fs.String("email", "", "Operator e-mail recorded as the reviewer identity")
	ttl := fs.Duration("ttl", time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := security.NewTokenManager(cfg.JWT.Secret).GenerateAdminToken(*email, *ttl)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	fmt.Fprintln(out, token)
	return nil
}

func parseReportFlags(args []string) (eligibility.Criteria, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	subjects := fs.String("subjects", "", "Comma-separated subjects (any may pass)")
	inst := fs.String("inst", "", "Comma-separated institutions")
	dept := fs.String("dept", "", "Comma-separated departments")
	batch := fs.String("batch", "", "Comma-separated HSC batches")
	if err := fs.Parse(args); err != nil {
		return eligibility.Criteria{}, err
	}

	criteria := eligibility.Criteria{Categorical: map[string][]string{}}
	for field, raw := range map[string]string{"inst": *inst, "dept": *dept, "hscBatch": *batch} {
		if values := splitList(raw); len(values) > 0 {
			criteria.Categorical[field] = values
		}
	}
	for _, name := range splitList(*subjects) {
		s, ok := domain.ParseSubject(name)
		if !ok {
			return criteria, fmt.Errorf("unknown subject %q", name)
		}
		criteria.Subjects = append(criteria.Subjects, s)
	}
	return criteria, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
