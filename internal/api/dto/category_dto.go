package dto

// ==================== 分类选项 ====================

// CategoryOptionsQuery 级联选项查询参数
type CategoryOptionsQuery struct {
	CategoryID string `form:"category_id" binding:"required"`
	Section    string `form:"section"`
}

// CategoryOptions 级联下拉选项
// 选中分类后返回可选分组；选中分组（或分类无分组）后返回可选子分类
type CategoryOptions struct {
	Sections      []string `json:"sections"`
	SubCategories []string `json:"sub_categories"`
}
