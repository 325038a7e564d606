package output

import (
	"path/filepath"
	"strings"

	"github.com/rpgo/lifepath/internal/domain"
)

// Render formats a report in memory using a registered formatter or alias.
func Render(report *domain.ProjectionReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(report)
}

// GenerateReport writes the report to path and returns the written file(s).
// "all" writes the verbose console text and the detailed CSV side by side; path
// then acts as a prefix and its extension is replaced.
func GenerateReport(report *domain.ProjectionReport, format, path string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, f := range []Formatter{ConsoleFormatter{}, CSVDetailedExporter{}} {
			target := ""
			if path != "" {
				target = strings.TrimSuffix(path, filepath.Ext(path)) + "." + f.Extension()
			}
			p, err := WriteFormatted(f, report, target)
			if err != nil {
				return written, err
			}
			written = append(written, p)
		}
		return written, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	p, err := WriteFormatted(f, report, path)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}
