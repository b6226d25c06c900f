package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"property-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Default ordering when no explicit sort is requested
const defaultSortColumn = "created_at"

// sortColumns maps the JSON field names clients sort by to table columns
var sortColumns = map[string]string{
	"_id":          "id",
	"id":           "id",
	"title":        "title",
	"propertyType": "property_type",
	"location":     "location",
	"price":        "price",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// likeEscaper escapes LIKE metacharacters so titles are matched literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListParams holds the property list query: filters, sort and pagination window.
type ListParams struct {
	TitleLike    string
	PropertyType string
	Start        int
	End          *int
	Sort         string
	Order        string
}

// ParseListParams extracts list parameters from URL query values.
// Supported parameters: _start, _end, _sort, _order, title_like, propertyType.
func ParseListParams(values url.Values) (ListParams, error) {
	p := ListParams{
		TitleLike:    strings.TrimSpace(values.Get("title_like")),
		PropertyType: strings.TrimSpace(values.Get("propertyType")),
		Sort:         strings.TrimSpace(values.Get("_sort")),
		Order:        strings.TrimSpace(values.Get("_order")),
	}

	if s := strings.TrimSpace(values.Get("_start")); s != "" {
		start, err := strconv.Atoi(s)
		if err != nil || start < 0 {
			return ListParams{}, fmt.Errorf("%w: _start=%q", ErrInvalidRange, s)
		}
		p.Start = start
	}

	if e := strings.TrimSpace(values.Get("_end")); e != "" {
		end, err := strconv.Atoi(e)
		if err != nil || end < 0 {
			return ListParams{}, fmt.Errorf("%w: _end=%q", ErrInvalidRange, e)
		}
		if end < p.Start {
			return ListParams{}, fmt.Errorf("%w: _end (%d) is before _start (%d)", ErrInvalidRange, end, p.Start)
		}
		p.End = &end
	}

	return p, nil
}

// Apply adds the filter conditions to the query. Empty filters are ignored.
func (p ListParams) Apply(db *gorm.DB) *gorm.DB {
	if p.TitleLike != "" {
		pattern := "%" + likeEscaper.Replace(model.SearchKey(p.TitleLike)) + "%"
		db = db.Where(`title_key LIKE ? ESCAPE '\'`, pattern)
	}
	if p.PropertyType != "" {
		db = db.Where("property_type = ?", p.PropertyType)
	}
	return db
}

// OrderBy returns the ORDER BY clause. An explicit sort needs both a known
// field and an order; anything else sorts newest first. id breaks ties.
func (p ListParams) OrderBy() clause.OrderBy {
	column := defaultSortColumn
	desc := true

	if p.Sort != "" && p.Order != "" {
		if col, ok := sortColumns[p.Sort]; ok {
			column = col
			desc = !strings.EqualFold(p.Order, "asc")
		}
	}

	columns := []clause.OrderByColumn{{Column: clause.Column{Name: column}, Desc: desc}}
	if column != "id" {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	return clause.OrderBy{Columns: columns}
}

// Window returns the (skip, limit) pair for a result set of total records.
// An omitted _end reads through to the last record.
func (p ListParams) Window(total int64) (skip, limit int) {
	end := int(total)
	if p.End != nil {
		end = *p.End
	}

	limit = end - p.Start
	if limit < 0 {
		limit = 0
	}
	return p.Start, limit
}
