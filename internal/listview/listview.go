// Package listview projects stored documents into display rows and applies
// the console's global search, per-column filters and pagination.
package listview

import (
	"sort"
	"strings"
	"time"

	"github.com/wanderpets/admin-api/pkg/docstore"
)

// Placeholder values rendered for missing fields.
const (
	NotAvailable = "N/A"
	Unknown      = "Unknown"
	AllStatuses  = "All Statuses"
)

// DefaultPageSize is the console's rows-per-page.
const DefaultPageSize = 8

// AllowedPageSizes lists the page sizes a caller may request.
var AllowedPageSizes = []int{5, 8}

// DisplayLayout renders timestamps in list rows.
const DisplayLayout = "1/2/2006, 3:04:05 PM"

// Row is one projected list row keyed by column name.
type Row map[string]string

// Column describes how one field is projected.
type Column struct {
	Field   string
	Default string
	// Timestamp renders store timestamps or epoch milliseconds.
	Timestamp bool
	// Source reads a different document field than Field.
	Source string
}

// Projection turns documents into rows.
type Projection struct {
	Columns []Column
	Zone    *time.Location
	// Derived adds computed columns after the plain ones are projected.
	Derived func(Row)
}

// Project renders one document. The document id and collection are always present.
func (p Projection) Project(collection, id string, data map[string]any) Row {
	row := Row{"id": id, "collectionName": collection}
	for _, col := range p.Columns {
		src := col.Source
		if src == "" {
			src = col.Field
		}
		value := data[src]
		var rendered string
		if col.Timestamp {
			rendered = p.formatTime(value)
		} else {
			rendered = strings.TrimSpace(docstore.StringValue(value))
			if _, isMap := value.(map[string]any); isMap {
				rendered = ""
			}
		}
		if rendered == "" {
			rendered = col.Default
			if rendered == "" {
				rendered = NotAvailable
			}
		}
		row[col.Field] = rendered
	}
	if p.Derived != nil {
		p.Derived(row)
	}
	return row
}

func (p Projection) formatTime(v any) string {
	zone := p.Zone
	if zone == nil {
		zone = time.UTC
	}
	if ts, ok := docstore.TimestampValue(v); ok && !ts.IsZero() {
		return ts.Time().In(zone).Format(DisplayLayout)
	}
	if ms, ok := v.(float64); ok && ms > 0 {
		return time.UnixMilli(int64(ms)).In(zone).Format(DisplayLayout)
	}
	if ms, ok := v.(int64); ok && ms > 0 {
		return time.UnixMilli(ms).In(zone).Format(DisplayLayout)
	}
	return ""
}

// FullName joins first and last name columns into fullName.
func FullName(row Row) {
	first, last := row["firstName"], row["lastName"]
	if first == NotAvailable {
		first = ""
	}
	if last == NotAvailable {
		last = ""
	}
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		name = NotAvailable
	}
	row["fullName"] = name
}

// Search keeps rows where any value contains term, case-insensitively.
// An empty term returns rows unchanged.
func Search(rows []Row, term string) []Row {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if strings.Contains(strings.ToLower(v), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// MatchMode selects how a column filter compares.
type MatchMode int

const (
	// Substring matches when the column contains the value.
	Substring MatchMode = iota
	// Exact matches the whole column value.
	Exact
)

// FieldFilter constrains one column. Comparisons ignore case.
type FieldFilter struct {
	Field string
	Value string
	Mode  MatchMode
}

func (f FieldFilter) active() bool {
	v := strings.TrimSpace(f.Value)
	return v != "" && !strings.EqualFold(v, AllStatuses)
}

func (f FieldFilter) matches(row Row) bool {
	got := strings.ToLower(row[f.Field])
	want := strings.ToLower(strings.TrimSpace(f.Value))
	if f.Mode == Exact {
		return got == want
	}
	return strings.Contains(got, want)
}

// Filter keeps rows matching every active filter.
func Filter(rows []Row, filters ...FieldFilter) []Row {
	active := make([]FieldFilter, 0, len(filters))
	for _, f := range filters {
		if f.active() {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, f := range active {
			if !f.matches(row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// Page is one slice of a filtered list.
type Page struct {
	Rows       []Row
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	Window     []int
}

// NormalizePageSize falls back to DefaultPageSize for unsupported sizes.
func NormalizePageSize(size int) int {
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return size
		}
	}
	return DefaultPageSize
}

// Paginate returns the 1-based page of rows. Pages past the end are empty.
func Paginate(rows []Row, page, size int) Page {
	size = NormalizePageSize(size)
	if page < 1 {
		page = 1
	}
	total := len(rows)
	totalPages := (total + size - 1) / size
	out := Page{
		Rows:       []Row{},
		Page:       page,
		PageSize:   size,
		TotalCount: total,
		TotalPages: totalPages,
		Window:     PageWindow(page, totalPages),
	}
	if page > totalPages {
		return out
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	out.Rows = rows[start:end]
	return out
}

const windowSize = 5

// PageWindow returns up to five page numbers centred on current.
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	if current > totalPages {
		current = totalPages
	}
	if current < 1 {
		current = 1
	}
	start := current - windowSize/2
	if start < 1 {
		start = 1
	}
	end := start + windowSize - 1
	if end > totalPages {
		end = totalPages
		start = end - windowSize + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// SortByTime orders rows by a key extracted from the source documents,
// newest first. Ties keep their input order.
func SortByTime(rows []Row, keys []int64) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] > keys[idx[b]] })
	sorted := make([]Row, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}
