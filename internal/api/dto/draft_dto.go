package dto

// ==================== 草稿请求 ====================

// OpenDraftRequest 打开草稿请求
// product_id 为空时新建，不为空时从后端商品播种编辑草稿
type OpenDraftRequest struct {
	OwnerID   int64  `json:"owner_id" binding:"required"`
	ProductID string `json:"product_id"`
}

// UpdateDraftRequest 更新草稿基础字段请求
// 指针字段区分"未传"和"传了空值"，未传的字段不动
type UpdateDraftRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Price           *string `json:"price"`
	Stock           *string `json:"stock"`
	CategoryID      *string `json:"category_id"`
	Section         *string `json:"section"`
	SubCategory     *string `json:"sub_category"`
	Brand           *string `json:"brand"`
	DiscountPercent *string `json:"discount_percent"`
	Badge           *string `json:"badge"`
	ShippingFee     *string `json:"shipping_fee"`
}

// ==================== 变体请求 ====================

// UpdateVariantFieldRequest 更新变体单字段请求
// value 类型跟随字段：colorName/colorCode/variantType 是字符串，stock 是数字
type UpdateVariantFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// AddOptionRequest 新增尺码/重量选项请求
type AddOptionRequest struct {
	Kind string `json:"kind" binding:"required,oneof=size weight"`
}

// UpdateOptionRequest 更新尺码/重量选项请求
type UpdateOptionRequest struct {
	Kind  string      `json:"kind" binding:"required,oneof=size weight"`
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// AttachImageRequest 挂载图片 URL 请求（已有 URL 直接挂，不走上传）
type AttachImageRequest struct {
	URL string `json:"url" binding:"required"`
}

// ==================== 草稿响应 ====================

// DraftSummary 草稿汇总信息
type DraftSummary struct {
	TotalStock   int `json:"total_stock"`
	VariantCount int `json:"variant_count"`
}
