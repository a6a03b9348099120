package repository

import "gorm.io/gorm"

const (
	// maxPageSize 单页条数上限
	maxPageSize = 200
	// defaultRecentLimit 最近记录类列表的默认条数
	defaultRecentLimit = 20
)

// applyPagination 按页截取结果；pageSize <= 0 表示不分页，页码与条数越界时收敛到合法范围
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	// 防止 (page-1)*pageSize 溢出
	if maxPage := int(^uint32(0)>>1) / pageSize; page > maxPage {
		page = maxPage
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// applyRecentLimit 截取最近的 limit 条，limit <= 0 时使用默认值
func applyRecentLimit(query *gorm.DB, limit int) *gorm.DB {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return query.Limit(limit)
}
