package normalize

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// ScanConfig configures the external scan-to-text conversion.
type ScanConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// CommandScanner shells out to pdftotext as the low-fidelity fallback for
// PDFs whose text layer is missing or empty.
type CommandScanner struct {
	cfg    ScanConfig
	runner Runner
	logger *slog.Logger
}

func NewCommandScanner(cfg ScanConfig, logger *slog.Logger) *CommandScanner {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandScanner{cfg: cfg, runner: execRunner{}, logger: logger}
}

// ScanToText converts PDF bytes to text. Every failure path returns "":
// a missing binary or a broken PDF degrades extraction accuracy downstream,
// never pipeline correctness.
func (s *CommandScanner) ScanToText(ctx context.Context, data []byte) string {
	tmpDir, err := os.MkdirTemp("", "oi-scan-*")
	if err != nil {
		s.logger.Warn("scan.tempdir_failed", "error", err)
		return ""
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			s.logger.Warn("scan.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		s.logger.Warn("scan.write_failed", "error", err)
		return ""
	}

	// pdftotext -layout -enc UTF-8 -eol unix <in> -
	out, _, err := s.runner.Run(ctx, s.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", in, "-")
	if err != nil {
		return ""
	}
	return string(out)
}
