package venues

import (
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchFilters describes a catalog query. Nil pointers and empty strings
// mean "no constraint".
type SearchFilters struct {
	Query    string
	Zone     string
	Category Category
	PriceMin *float64
	PriceMax *float64
	Capacity *int
	Page     int
	PageSize int
}

// RawFilters carries untyped query-string values as received.
type RawFilters struct {
	Query    string
	Zone     string
	Category string
	PriceMin string
	PriceMax string
	Capacity string
	Page     string
	PageSize string
}

// ParseFilters converts raw values. A present but malformed value is a
// ValidationError; a missing value leaves the constraint unset.
func ParseFilters(raw RawFilters) (SearchFilters, error) {
	f := SearchFilters{
		Query: strings.TrimSpace(raw.Query),
		Zone:  strings.TrimSpace(raw.Zone),
	}
	if c := strings.TrimSpace(raw.Category); c != "" {
		f.Category = Category(strings.ToUpper(c))
	}
	var err error
	if f.PriceMin, err = parseFloat("priceMin", raw.PriceMin); err != nil {
		return SearchFilters{}, err
	}
	if f.PriceMax, err = parseFloat("priceMax", raw.PriceMax); err != nil {
		return SearchFilters{}, err
	}
	if f.Capacity, err = parseInt("capacity", raw.Capacity); err != nil {
		return SearchFilters{}, err
	}
	page, err := parseInt("page", raw.Page)
	if err != nil {
		return SearchFilters{}, err
	}
	if page != nil {
		f.Page = *page
	}
	size, err := parseInt("pageSize", raw.PageSize)
	if err != nil {
		return SearchFilters{}, err
	}
	if size != nil {
		f.PageSize = *size
	}
	if err := f.Validate(); err != nil {
		return SearchFilters{}, err
	}
	return f.Normalized(), nil
}

// Validate checks values that were set explicitly.
func (f SearchFilters) Validate() error {
	if f.Category != "" && !f.Category.Valid() {
		return invalid("category", "is unknown")
	}
	if f.PriceMin != nil && *f.PriceMin < 0 {
		return invalid("priceMin", "must be non-negative")
	}
	if f.PriceMax != nil && *f.PriceMax < 0 {
		return invalid("priceMax", "must be non-negative")
	}
	if f.Capacity != nil && *f.Capacity < 0 {
		return invalid("capacity", "must be non-negative")
	}
	if f.Page < 0 {
		return invalid("page", "must be at least 1")
	}
	if f.PageSize < 0 {
		return invalid("pageSize", "must be at least 1")
	}
	return nil
}

// Normalized fills pagination defaults and caps the page size.
func (f SearchFilters) Normalized() SearchFilters {
	n := f
	n.Query = strings.TrimSpace(n.Query)
	n.Zone = strings.TrimSpace(n.Zone)
	if n.Page < 1 {
		n.Page = DefaultPage
	}
	if n.PageSize < 1 {
		n.PageSize = DefaultPageSize
	}
	if n.PageSize > MaxPageSize {
		n.PageSize = MaxPageSize
	}
	return n
}

// Fingerprint is a canonical encoding of the normalized filters, stable
// across equivalent inputs.
func (f SearchFilters) Fingerprint() string {
	n := f.Normalized()
	var b strings.Builder
	b.WriteString("q=" + strconv.Quote(strings.ToLower(n.Query)))
	b.WriteString("|z=" + strconv.Quote(n.Zone))
	b.WriteString("|c=" + string(n.Category))
	if n.PriceMin != nil {
		b.WriteString("|min=" + strconv.FormatFloat(*n.PriceMin, 'g', -1, 64))
	}
	if n.PriceMax != nil {
		b.WriteString("|max=" + strconv.FormatFloat(*n.PriceMax, 'g', -1, 64))
	}
	if n.Capacity != nil {
		b.WriteString("|cap=" + strconv.Itoa(*n.Capacity))
	}
	b.WriteString("|p=" + strconv.Itoa(n.Page))
	b.WriteString("|s=" + strconv.Itoa(n.PageSize))
	return b.String()
}

func parseFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalid(field, "must be a number")
	}
	return &v, nil
}

func parseInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalid(field, "must be an integer")
	}
	if (field == "page" || field == "pageSize") && v < 1 {
		return nil, invalid(field, "must be at least 1")
	}
	return &v, nil
}
