package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/regimesim/internal/compare"
)

// Formatter renders a single analysed simulation
type Formatter interface {
	Name() string
	Format(result *compare.ComparisonResult) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(result *compare.ComparisonResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *compare.ComparisonResult) ([]byte, error) {
	return f.F(result)
}

var formatters = map[string]Formatter{}

var aliases = map[string]string{
	"table":   "console",
	"text":    "console",
	"verbose": "console",
	"brief":   "console-lite",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleLiteFormatter{})
	register(CSVSummarizer{})
	register(JSONFormatter{})
	register(HTMLFormatter{})
}

// GetFormatterByName looks up a formatter by name or alias; nil when unknown
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	return formatters[key]
}

// AvailableFormatterNames lists registered formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases in sorted order
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders result and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, result *compare.ComparisonResult, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("regime_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
