// Package present turns view results into display artifacts: summary cards,
// declarative chart specs, searchable tables and a text renderer.
package present

// Level classifies a Notice.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notice is a user-facing message attached to a view response.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Card is a summary scalar.
type Card struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
	Tone   string `json:"tone,omitempty"`
}

// Result is the full response of one view interaction.
type Result struct {
	View    string   `json:"view"`
	Title   string   `json:"title,omitempty"`
	Notices []Notice `json:"notices"`
	Summary []Card   `json:"summary"`
	Charts  []Chart  `json:"charts"`
	Tables  []*Table `json:"tables"`
	Data    any      `json:"data"`
}

// NewResult returns an empty Result with non-nil slices.
func NewResult(view string) *Result {
	return &Result{
		View:    view,
		Notices: []Notice{},
		Summary: []Card{},
		Charts:  []Chart{},
		Tables:  []*Table{},
	}
}

func (r *Result) notice(l Level, text string) {
	r.Notices = append(r.Notices, Notice{Level: l, Text: text})
}

func (r *Result) Info(text string)    { r.notice(Info, text) }
func (r *Result) Success(text string) { r.notice(Success, text) }
func (r *Result) Warn(text string)    { r.notice(Warning, text) }
func (r *Result) Error(text string)   { r.notice(Error, text) }

// HasLevel reports whether any notice has level l.
func (r *Result) HasLevel(l Level) bool {
	for _, n := range r.Notices {
		if n.Level == l {
			return true
		}
	}
	return false
}

// AddCard appends a summary card.
func (r *Result) AddCard(c Card) { r.Summary = append(r.Summary, c) }

// AddChart appends a chart spec.
func (r *Result) AddChart(c Chart) { r.Charts = append(r.Charts, c) }

// AddTable appends a table view.
func (r *Result) AddTable(t *Table) { r.Tables = append(r.Tables, t) }

// Table returns the table with the given id, or nil.
func (r *Result) Table(id string) *Table {
	for _, t := range r.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}
