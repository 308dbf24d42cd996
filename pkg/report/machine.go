package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
)

// FileReport is the machine-readable form of one file's result.
type FileReport struct {
	Filename    string            `json:"filename"              yaml:"filename"`
	SourceType  string            `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	Error       string            `json:"error,omitempty"       yaml:"error,omitempty"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"           yaml:"diagnostics"`
}

// Document is the top-level JSON/YAML report.
type Document struct {
	Files   []FileReport `json:"files"   yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// NewDocument converts results into a Document.
func NewDocument(results []lint.FileResult, summary Summary) Document {
	doc := Document{Files: make([]FileReport, 0, len(results)), Summary: summary}

	for _, result := range results {
		file := FileReport{
			Filename:    result.Filename,
			SourceType:  string(result.SourceType),
			Diagnostics: result.Diagnostics,
		}

		if file.Diagnostics == nil {
			file.Diagnostics = []lint.Diagnostic{}
		}

		if result.Err != nil {
			file.Error = result.Err.Error()
		}

		doc.Files = append(doc.Files, file)
	}

	return doc
}

func renderJSON(writer io.Writer, results []lint.FileResult, summary Summary) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")

	return enc.Encode(NewDocument(results, summary))
}

func renderYAML(writer io.Writer, results []lint.FileResult, summary Summary) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)

	if err := enc.Encode(NewDocument(results, summary)); err != nil {
		return err
	}

	return enc.Close()
}
