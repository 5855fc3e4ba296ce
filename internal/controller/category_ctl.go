package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall_admin_v1_202609/internal/api/dto"
	"mall_admin_v1_202609/internal/service"
)

// ==================== 控制器 ====================

// CategoryController 分类控制器
type CategoryController struct {
	catalogService *service.CatalogService
}

func NewCategoryController(catalogService *service.CatalogService) *CategoryController {
	return &CategoryController{catalogService: catalogService}
}

// ==================== API 方法 ====================

// ListCategories 获取分类列表
// @Summary 获取全部商品分类
// @Tags Category
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/categories [get]
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.catalogService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    categories,
	})
}

// GetOptions 获取级联选项
// @Summary 获取分类下的分组与子分类选项
// @Tags Category
// @Param category_id query string true "分类ID"
// @Param section query string false "分组标题（有分组的分类传此参数取子分类）"
// @Success 200 {object} dto.CategoryOptions
// @Router /api/categories/options [get]
func (ctrl *CategoryController) GetOptions(c *gin.Context) {
	var query dto.CategoryOptionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	sections, err := ctrl.catalogService.SectionOptions(ctx, query.CategoryID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}

	options := dto.CategoryOptions{Sections: sections}

	// 无分组的分类直接给子分类；有分组的分类需要先选定分组
	if len(sections) == 0 || query.Section != "" {
		subCategories, err := ctrl.catalogService.SubCategoryOptions(ctx, query.CategoryID, query.Section)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
			return
		}
		options.SubCategories = subCategories
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    options,
	})
}

// RefreshCategories 手动触发分类同步
// @Summary 立即从商城后端同步分类
// @Tags Category
// @Success 200 {object} map[string]interface{}
// @Router /api/categories/refresh [post]
func (ctrl *CategoryController) RefreshCategories(c *gin.Context) {
	if err := ctrl.catalogService.RefreshCategories(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}
