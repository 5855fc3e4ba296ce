package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mall_admin_v1_202609/internal/controller"
	"mall_admin_v1_202609/internal/middleware"

	_ "mall_admin_v1_202609/docs"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	draftCtl *controller.DraftController,
	productCtl *controller.ProductController,
	categoryCtl *controller.CategoryController) {

	r.Use(middleware.Cors())
	r.Use(middleware.RequestLog())

	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// draft 草稿编辑器
		drafts := api.Group("/drafts")
		{
			// POST /api/drafts
			drafts.POST("", draftCtl.OpenDraft)
			drafts.GET("/:draft_id", draftCtl.GetDraft)
			drafts.PATCH("/:draft_id", draftCtl.UpdateDraft)
			drafts.DELETE("/:draft_id", draftCtl.CancelDraft)
			drafts.GET("/:draft_id/summary", draftCtl.GetSummary)
			drafts.POST("/:draft_id/submit", draftCtl.SubmitDraft)

			// 变体操作，全部按变体稳定 ID 寻址
			drafts.POST("/:draft_id/variants", draftCtl.AddVariant)
			drafts.PATCH("/:draft_id/variants/:variant_id", draftCtl.UpdateVariantField)
			drafts.DELETE("/:draft_id/variants/:variant_id", draftCtl.RemoveVariant)
			drafts.POST("/:draft_id/variants/:variant_id/options", draftCtl.AddOption)
			drafts.PATCH("/:draft_id/variants/:variant_id/options/:option_id", draftCtl.UpdateOption)
			drafts.DELETE("/:draft_id/variants/:variant_id/options/:option_id", draftCtl.RemoveOption)
			drafts.POST("/:draft_id/variants/:variant_id/images", draftCtl.UploadImage)
			drafts.DELETE("/:draft_id/variants/:variant_id/images/:index", draftCtl.RemoveImage)
		}
		// product 商品列表
		products := api.Group("/products")
		{
			products.GET("", productCtl.ListProducts)
			products.GET("/:product_id", productCtl.GetProduct)
			products.DELETE("/:product_id", productCtl.DeleteProduct)
		}
		// category 分类与级联选项
		categories := api.Group("/categories")
		{
			categories.GET("", categoryCtl.ListCategories)
			categories.GET("/options", categoryCtl.GetOptions)
			categories.POST("/refresh", categoryCtl.RefreshCategories)
		}
	}
}
