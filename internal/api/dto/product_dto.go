package dto

import "mall_admin_v1_202609/pkg/backend"

// ==================== 商品列表 ====================

// ProductQuery 商品列表查询参数
type ProductQuery struct {
	Keyword    string `form:"q"`
	CategoryID string `form:"category_id"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=price stock name"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	SellerOnly bool   `form:"seller_only"`
}

// ProductPage 商品分页结果
type ProductPage struct {
	Items    []backend.Product `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
