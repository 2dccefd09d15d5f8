package app

import (
	"strings"

	"squido/pkg/domain"
)

// paginate slices an already-filtered list into a page. page <= 0 means
// "no pagination": the whole list comes back as a single page.
func paginate[T any](items []T, page, pageSize int) domain.PagedResult[T] {
	total := len(items)
	if page <= 0 {
		return domain.PagedResult[T]{
			Items:      items,
			Page:       1,
			PageSize:   total,
			TotalCount: total,
			PageCount:  1,
		}
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageCount := (total + pageSize - 1) / pageSize
	skip := (page - 1) * pageSize
	if skip > total {
		skip = total
	}
	end := skip + pageSize
	if end > total {
		end = total
	}
	return domain.PagedResult[T]{
		Items:      items[skip:end],
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		PageCount:  pageCount,
	}
}

const defaultPageSize = 10

// matchKeyword reports whether field contains keyword, case-insensitively.
// An empty keyword matches everything.
func matchKeyword(field, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(keyword))
}
