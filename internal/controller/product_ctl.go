package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall_admin_v1_202609/internal/api/dto"
	"mall_admin_v1_202609/internal/service"
)

// ==================== 控制器 ====================

// ProductController 商品列表控制器
type ProductController struct {
	catalogService *service.CatalogService
}

func NewProductController(catalogService *service.CatalogService) *ProductController {
	return &ProductController{catalogService: catalogService}
}

// ==================== API 方法 ====================

// ListProducts 查询商品列表
// @Summary 查询后端商品列表（搜索/过滤/排序/分页）
// @Tags Product
// @Produce json
// @Param q query string false "搜索关键字（名称/品牌）"
// @Param category_id query string false "分类ID过滤"
// @Param sort_by query string false "排序字段 price|stock|name"
// @Param order query string false "排序方向 asc|desc"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Param seller_only query bool false "只看本店商品"
// @Success 200 {object} dto.ProductPage
// @Router /api/products [get]
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	var query dto.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	page, err := ctrl.catalogService.ListProducts(c.Request.Context(), &query)
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
		"data":    page,
	})
}

// GetProduct 获取单个商品
// @Summary 按ID获取后端商品
// @Tags Product
// @Param product_id path string true "商品ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/products/{product_id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.catalogService.FindProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    product,
	})
}

// DeleteProduct 删除商品
// @Summary 删除后端商品（需带 confirm=true）
// @Tags Product
// @Param product_id path string true "商品ID"
// @Param confirm query bool true "确认删除"
// @Success 200 {object} map[string]interface{}
// @Router /api/products/{product_id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"

	err := ctrl.catalogService.DeleteProduct(c.Request.Context(), c.Param("product_id"), confirmed)
	if err != nil {
		if !confirmed {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
			return
		}
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
