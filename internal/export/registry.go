package export

import (
	"sort"
	"strings"

	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

// Registry maps format names to formatters.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry returns a registry with every built-in format, all sharing
// opts.
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	r.Register(FormatCSV, NewCSVFormatter(opts))
	r.Register(FormatMT940, NewMT940Formatter(opts))
	r.Register(FormatCAMT, NewCAMTFormatter(opts))
	r.Register(FormatQBO, NewQBOFormatter(opts))
	r.Register(FormatXLSX, NewXLSXFormatter(opts))
	return r
}

// Register adds or replaces the formatter for name.
func (r *Registry) Register(name string, f Formatter) {
	r.formatters[strings.ToLower(name)] = f
}

// Get returns the formatter for a format name. Lookups are
// case-insensitive; "camt053" and "camt.053" are accepted for CAMT, "sta"
// for MT940 and "excel" for XLSX.
func (r *Registry) Get(format string) (Formatter, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	switch name {
	case "camt053", "camt.053", "camt-053":
		name = FormatCAMT
	case "sta":
		name = FormatMT940
	case "excel":
		name = FormatXLSX
	}
	f, ok := r.formatters[name]
	if !ok {
		return nil, &pipelineerror.InputError{
			Field:  "format",
			Reason: "unsupported format " + format + " (expected one of " + strings.Join(r.Formats(), ", ") + ")",
		}
	}
	return f, nil
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export formats req with the named formatter.
func (r *Registry) Export(format string, req models.ExportRequest) (*Result, error) {
	f, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return f.Format(req)
}
