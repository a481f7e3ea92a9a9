package schemas

// AnalyzeParams is the request shape for one analysis call. Offsets position
// the command inside a larger host document; spans in the resulting
// diagnostics come back already adjusted by them.
type AnalyzeParams struct {
	// Content is the single logical command to analyze
	Content string `json:"content"`
	// FilePath is optional context about where the command came from
	FilePath string `json:"file_path,omitempty"`
	// LineOffset is the 0-based line of the command in its host document
	LineOffset int `json:"line_offset"`
	// ColumnOffset is the 0-based column of the command's first character
	ColumnOffset int `json:"column_offset"`
}
