package database

// Column types.
const (
	ColumnTypeText    = "text"
	ColumnTypeFormula = "formula"
	ColumnTypeAI      = "ai"
)

// AI column output styles.
const (
	OutputStyleSingle          = "single"
	OutputStyleRatingAndReason = "rating_and_reason"
)

// StatusInbox is the implicit zeroth bucket every row starts in. Any
// other status value is the id of a SearchView in the same project.
const StatusInbox = "inbox"

// SearchProject is an uploaded dataset with its columns, rows, and views.
type SearchProject struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CreatedAt *string `json:"createdAt,omitempty"`
}

// SearchColumn is one typed slot in a project's tabular schema. Field is
// the row-data map key and is immutable after creation. The type-specific
// attributes (Formula for formula columns; Prompt, InputColumnIDs,
// UseOnlyRelevant, OutputStyle, PairColumnID for ai columns) are only
// populated for their respective type.
type SearchColumn struct {
	ID              string   `json:"id"`
	ProjectID       string   `json:"projectId"`
	Field           string   `json:"field"`
	Header          string   `json:"header"`
	Type            string   `json:"type"`
	Prompt          *string  `json:"prompt,omitempty"`
	Formula         *string  `json:"formula,omitempty"`
	InputColumnIDs  []string `json:"inputColumnIds,omitempty"`
	UseOnlyRelevant bool     `json:"useOnlyRelevant"`
	OutputStyle     *string  `json:"outputStyle,omitempty"`
	PairColumnID    *string  `json:"pairColumnId,omitempty"`
	Width           int      `json:"width"`
	Pinned          *string  `json:"pinned"`
	Hidden          bool     `json:"hidden"`
	CreatedAt       *string  `json:"-"`
}

// SearchRow is one data record. Data maps column fields to cell values:
// nil, string, float64, or a list of strings/numbers.
type SearchRow struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"-"`
	RowIndex  int            `json:"rowIndex"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
}

// SearchView is a named row bucket; its id doubles as a row status value.
type SearchView struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// KPI is one configured investment KPI range.
type KPI struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

// ReportSection is one configured section template for sector reports.
type ReportSection struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// Settings is the process-wide configuration consumed by report
// generation: investment thesis, KPI ranges, and section templates.
type Settings struct {
	Thesis         string          `json:"thesis"`
	KPIs           []KPI           `json:"kpis"`
	ReportSections []ReportSection `json:"reportSections"`
}

// ReportSectionResult is one generated section of a sector report.
type ReportSectionResult struct {
	SectionName string `json:"sectionName"`
	Content     string `json:"content"`
}

// DiscoveryProject is a sector analysis project with its generated report.
type DiscoveryProject struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Sector    *string               `json:"sector"`
	Context   *string               `json:"context"`
	Report    []ReportSectionResult `json:"report,omitempty"`
	CreatedAt *string               `json:"createdAt,omitempty"`
}

// Stats contains aggregate database statistics.
type Stats struct {
	SearchProjects    int
	Columns           int
	Rows              int
	Views             int
	DiscoveryProjects int
	Reports           int
}
