package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// OutputType identifies the format of a report's output payload.
type OutputType string

const (
	OutputMarkdown OutputType = "markdown"
	OutputJSON     OutputType = "json"
	OutputPDF      OutputType = "pdf"
	OutputURL      OutputType = "url"
)

// ReportOutput represents the typed output payload of a report.
// Exactly one concrete implementation exists per OutputType.
type ReportOutput interface {
	// OutputType returns the type discriminant for this output.
	OutputType() OutputType
}

// MarkdownOutput carries the report body as rendered markdown text.
type MarkdownOutput struct {
	Markdown string `json:"markdown"`
}

// OutputType returns the type discriminant for MarkdownOutput.
func (MarkdownOutput) OutputType() OutputType {
	return OutputMarkdown
}

// ReportSection is one structured section of a JSON report.
type ReportSection struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Score        float64  `json:"score,omitempty"`
	Observations []string `json:"observations,omitempty"`
}

// JSONOutput carries the report body as structured sections.
type JSONOutput struct {
	Sections []ReportSection `json:"sections"`
}

// OutputType returns the type discriminant for JSONOutput.
func (JSONOutput) OutputType() OutputType {
	return OutputJSON
}

// PDFOutput carries a download URL for a rendered PDF report.
type PDFOutput struct {
	PDFURL string `json:"pdfUrl"`
}

// OutputType returns the type discriminant for PDFOutput.
func (PDFOutput) OutputType() OutputType {
	return OutputPDF
}

// URLOutput carries a hosted report URL.
type URLOutput struct {
	URL string `json:"url"`
}

// OutputType returns the type discriminant for URLOutput.
func (URLOutput) OutputType() OutputType {
	return OutputURL
}

// Report is the immutable output artifact of a successful job.
// Reports are created server-side and fetched read-only by id or by job id.
type Report struct {
	ID        string
	JobID     string
	RequestID string
	CreatedAt time.Time
	Output    ReportOutput
}

// reportJSON mirrors the wire shape of a report, with the output payload
// deferred for tag-based dispatch.
type reportJSON struct {
	ID        string          `json:"id"`
	JobID     string          `json:"jobId"`
	RequestID string          `json:"requestId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Output    json.RawMessage `json:"output"`
}

// UnmarshalJSON decodes a report, dispatching the output payload on its
// "type" discriminant.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw reportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = raw.ID
	r.JobID = raw.JobID
	r.RequestID = raw.RequestID
	r.CreatedAt = raw.CreatedAt

	if len(raw.Output) == 0 {
		return fmt.Errorf("report %s has no output: %w", raw.ID, ErrDecode)
	}

	var tag struct {
		Type OutputType `json:"type"`
	}
	if err := json.Unmarshal(raw.Output, &tag); err != nil {
		return fmt.Errorf("report output tag: %w", ErrDecode)
	}

	var (
		out ReportOutput
		err error
	)
	switch tag.Type {
	case OutputMarkdown:
		var v MarkdownOutput
		err = json.Unmarshal(raw.Output, &v)
		out = v
	case OutputJSON:
		var v JSONOutput
		err = json.Unmarshal(raw.Output, &v)
		out = v
	case OutputPDF:
		var v PDFOutput
		err = json.Unmarshal(raw.Output, &v)
		out = v
	case OutputURL:
		var v URLOutput
		err = json.Unmarshal(raw.Output, &v)
		out = v
	default:
		return fmt.Errorf("unknown report output type %q: %w", tag.Type, ErrDecode)
	}
	if err != nil {
		return fmt.Errorf("report output payload: %w", ErrDecode)
	}

	r.Output = out
	return nil
}

// MarshalJSON encodes a report back into its wire shape.
func (r Report) MarshalJSON() ([]byte, error) {
	var output json.RawMessage
	if r.Output != nil {
		payload, err := json.Marshal(r.Output)
		if err != nil {
			return nil, err
		}
		// Re-attach the discriminant alongside the payload fields.
		var fields map[string]any
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, err
		}
		fields["type"] = r.Output.OutputType()
		output, err = json.Marshal(fields)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(reportJSON{
		ID:        r.ID,
		JobID:     r.JobID,
		RequestID: r.RequestID,
		CreatedAt: r.CreatedAt,
		Output:    output,
	})
}
