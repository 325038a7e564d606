package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpgo/lifepath/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name with no registered formatter
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter renders a projection report. Format must not write anywhere itself;
// callers decide where the bytes go.
type Formatter interface {
	Format(report *domain.ProjectionReport) ([]byte, error)
	// Name is the canonical format name used on the command line.
	Name() string
	// Extension is the file extension used when the output is written to disk.
	Extension() string
}

// FormatterFunc lets a plain function serve as a Formatter, e.g. for RegisterFormatter.
type FormatterFunc struct {
	ID  string
	Ext string
	F   func(*domain.ProjectionReport) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.ProjectionReport) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                      { return ff.ID }
func (ff FormatterFunc) Extension() string                                 { return ff.Ext }

// WriteFormatted runs a formatter and writes the output to path. An empty path
// writes a timestamped file in the working directory.
func WriteFormatted(f Formatter, report *domain.ProjectionReport, path string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", fmt.Errorf("format %s: %w", f.Name(), err)
	}
	if path == "" {
		path = fmt.Sprintf("lifepath_report_%s.%s", time.Now().Format("20060102_150405"), f.Extension())
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s report: %w", f.Name(), err)
	}
	return path, nil
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Formatter{}
)

func init() {
	for _, f := range []Formatter{
		ConsoleFormatter{},
		ConsoleSummaryFormatter{},
		CSVSummarizer{},
		CSVDetailedExporter{},
		HTMLFormatter{},
		JSONFormatter{},
	} {
		RegisterFormatter(f)
	}
}

// RegisterFormatter adds f under its Name, replacing any formatter of that name.
func RegisterFormatter(f Formatter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(f.Name())] = f
}

// GetFormatterByName resolves a format name or alias. It returns nil when nothing matches.
func GetFormatterByName(name string) Formatter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[NormalizeFormatName(name)]
}

var aliasMap = map[string]string{
	"table":        "console",
	"text":         "console",
	"summary":      "console-lite",
	"csv-detailed": "detailed-csv",
	"csv-summary":  "csv",
	"html-report":  "html",
	"json-pretty":  "json",
}

// NormalizeFormatName trims and lowercases name and maps aliases to canonical names.
func NormalizeFormatName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliasMap[key]; ok {
		return canonical
	}
	return key
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AvailableFormatAliases lists the alias keys, sorted.
func AvailableFormatAliases() []string {
	out := make([]string, 0, len(aliasMap))
	for alias := range aliasMap {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
