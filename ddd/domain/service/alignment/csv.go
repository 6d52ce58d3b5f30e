package alignment

import "strings"

// CSVRecord is one exported row. Values render quoted; booleans render as 1/0.
type CSVRecord struct {
	fields []csvField
}

type csvField struct {
	name  string
	value string
}

// NewCSVRecord starts an empty record.
func NewCSVRecord() *CSVRecord {
	return &CSVRecord{}
}

// Set appends a string field.
func (r *CSVRecord) Set(name, value string) *CSVRecord {
	r.fields = append(r.fields, csvField{name: name, value: value})
	return r
}

// SetBool appends a boolean field rendered as 1/0.
func (r *CSVRecord) SetBool(name string, value bool) *CSVRecord {
	v := "0"
	if value {
		v = "1"
	}
	r.fields = append(r.fields, csvField{name: name, value: v})
	return r
}

// FormatCSV serializes records with a header row taken from the first record's
// field names. Every value is quoted; embedded quotes are doubled.
func FormatCSV(records []*CSVRecord) string {
	if len(records) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(values []string) {
		for i, v := range values {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(v, `"`, `""`))
			sb.WriteByte('"')
		}
		sb.WriteByte('\n')
	}

	header := make([]string, 0, len(records[0].fields))
	for _, f := range records[0].fields {
		header = append(header, f.name)
	}
	writeRow(header)

	for _, r := range records {
		values := make([]string, 0, len(r.fields))
		for _, f := range r.fields {
			values = append(values, f.value)
		}
		writeRow(values)
	}
	return sb.String()
}

// RowsToCSV exports row texts in the subtitle CSV layout.
func RowsToCSV(rows []string) string {
	records := make([]*CSVRecord, 0, len(rows))
	for _, text := range rows {
		records = append(records, NewCSVRecord().Set("text", text))
	}
	return FormatCSV(records)
}
