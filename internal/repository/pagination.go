package repository

import "gorm.io/gorm"

// applyPagination 统一套用分页，pageSize 非法时不加 LIMIT
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}
	return query.Limit(pageSize).Offset(offset)
}
