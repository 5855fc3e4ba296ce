package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mall_admin_v1_202609/internal/api/dto"
	"mall_admin_v1_202609/internal/model"
	"mall_admin_v1_202609/internal/service"
)

// ==================== 控制器 ====================

// DraftController 商品草稿控制器
type DraftController struct {
	editorService *service.EditorService
	uploadService *service.UploadService
}

func NewDraftController(editorService *service.EditorService, uploadService *service.UploadService) *DraftController {
	return &DraftController{
		editorService: editorService,
		uploadService: uploadService,
	}
}

// parseDraftID 解析路径里的草稿 ID
func parseDraftID(c *gin.Context) (int64, bool) {
	draftID, err := strconv.ParseInt(c.Param("draft_id"), 10, 64)
	if err != nil || draftID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的草稿ID",
		})
		return 0, false
	}
	return draftID, true
}

// draftError 按错误类型选状态码
func draftError(c *gin.Context, err error) {
	switch {
	case err.Error() == "草稿不存在" || err.Error() == "商品不存在":
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
	case errors.Is(err, model.ErrImageLimit),
		errors.Is(err, model.ErrVariantNotFound),
		errors.Is(err, model.ErrInvalidVariantType):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
	}
}

func draftOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// ==================== 草稿生命周期 ====================

// OpenDraft 打开草稿
// @Summary 打开商品编辑草稿（新建或编辑现有商品）
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body dto.OpenDraftRequest true "打开请求"
// @Success 201 {object} map[string]interface{}
// @Router /api/drafts [post]
func (ctrl *DraftController) OpenDraft(c *gin.Context) {
	var req dto.OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	var (
		draft *model.ProductDraft
		err   error
	)
	if req.ProductID != "" {
		draft, err = ctrl.editorService.OpenForProduct(ctx, req.OwnerID, req.ProductID)
	} else {
		draft, err = ctrl.editorService.OpenEmpty(ctx, req.OwnerID)
	}
	if err != nil {
		draftError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    draft,
	})
}

// GetDraft 获取草稿详情
// @Summary 获取草稿详情
// @Tags Draft
// @Param draft_id path int true "草稿ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id} [get]
func (ctrl *DraftController) GetDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	draft, err := ctrl.editorService.Get(c.Request.Context(), draftID)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// UpdateDraft 更新草稿基础字段
// @Summary 更新草稿基础字段（分类/分组/子分类级联生效）
// @Tags Draft
// @Accept json
// @Param draft_id path int true "草稿ID"
// @Param body body dto.UpdateDraftRequest true "更新内容"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id} [patch]
func (ctrl *DraftController) UpdateDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.editorService.UpdateFields(c.Request.Context(), draftID, &req)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// CancelDraft 取消编辑
// @Summary 取消编辑并丢弃草稿
// @Tags Draft
// @Param draft_id path int true "草稿ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id} [delete]
func (ctrl *DraftController) CancelDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	if err := ctrl.editorService.Cancel(c.Request.Context(), draftID); err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, nil)
}

// GetSummary 获取草稿汇总
// @Summary 获取草稿库存汇总（总库存、变体数）
// @Tags Draft
// @Param draft_id path int true "草稿ID"
// @Success 200 {object} dto.DraftSummary
// @Router /api/drafts/{draft_id}/summary [get]
func (ctrl *DraftController) GetSummary(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	summary, err := ctrl.editorService.Summary(c.Request.Context(), draftID)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, summary)
}

// SubmitDraft 提交草稿
// @Summary 提交草稿到商城后端（新建走创建、编辑走更新）
// @Tags Draft
// @Param draft_id path int true "草稿ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/submit [post]
func (ctrl *DraftController) SubmitDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	product, err := ctrl.editorService.Submit(c.Request.Context(), draftID)
	if err != nil {
		if err.Error() == "草稿不存在" {
			draftError(c, err)
			return
		}
		// 后端调用失败是 500，其余是提交前的校验错误
		if strings.HasPrefix(err.Error(), "提交商品失败") {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
		return
	}
	draftOK(c, product)
}

// ==================== 变体操作 ====================

// AddVariant 新增颜色变体
// @Summary 追加一个空白颜色变体
// @Tags Variant
// @Param draft_id path int true "草稿ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants [post]
func (ctrl *DraftController) AddVariant(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	draft, err := ctrl.editorService.AddVariant(c.Request.Context(), draftID)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// RemoveVariant 删除颜色变体
// @Summary 删除指定颜色变体
// @Tags Variant
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id} [delete]
func (ctrl *DraftController) RemoveVariant(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	draft, err := ctrl.editorService.RemoveVariant(c.Request.Context(), draftID, c.Param("variant_id"))
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// UpdateVariantField 更新变体字段
// @Summary 更新变体单个字段（variantType 切换会重置子选项）
// @Tags Variant
// @Accept json
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Param body body dto.UpdateVariantFieldRequest true "字段与值"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id} [patch]
func (ctrl *DraftController) UpdateVariantField(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req dto.UpdateVariantFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.editorService.UpdateVariantField(c.Request.Context(), draftID, c.Param("variant_id"), req.Field, req.Value)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// AddOption 新增尺码/重量选项
// @Summary 为变体追加一条空白尺码或重量选项
// @Tags Variant
// @Accept json
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Param body body dto.AddOptionRequest true "选项类型"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id}/options [post]
func (ctrl *DraftController) AddOption(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req dto.AddOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.editorService.AddOption(c.Request.Context(), draftID, c.Param("variant_id"), req.Kind)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// UpdateOption 更新尺码/重量选项
// @Summary 更新尺码或重量选项的单个字段
// @Tags Variant
// @Accept json
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Param option_id path string true "选项ID"
// @Param body body dto.UpdateOptionRequest true "字段与值"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id}/options/{option_id} [patch]
func (ctrl *DraftController) UpdateOption(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req dto.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.editorService.UpdateOption(c.Request.Context(), draftID, c.Param("variant_id"), req.Kind, c.Param("option_id"), req.Field, req.Value)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// RemoveOption 删除尺码/重量选项
// @Summary 删除尺码或重量选项
// @Tags Variant
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Param option_id path string true "选项ID"
// @Param kind query string true "选项类型 size|weight"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id}/options/{option_id} [delete]
func (ctrl *DraftController) RemoveOption(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	kind := c.Query("kind")
	draft, err := ctrl.editorService.RemoveOption(c.Request.Context(), draftID, c.Param("variant_id"), kind, c.Param("option_id"))
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// ==================== 变体图片 ====================

// UploadImage 上传变体图片
// @Summary 上传图片文件并挂到变体（每个变体最多 5 张）
// @Tags Variant
// @Accept multipart/form-data
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Param image formData file true "图片文件"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id}/images [post]
func (ctrl *DraftController) UploadImage(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	// 两种挂图方式：multipart 传文件走上传，JSON 传 url 直接挂
	if c.ContentType() == "application/json" {
		var req dto.AttachImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "参数错误: " + err.Error(),
			})
			return
		}
		draft, err := ctrl.editorService.AttachImage(c.Request.Context(), draftID, c.Param("variant_id"), req.URL)
		if err != nil {
			draftError(c, err)
			return
		}
		draftOK(c, draft)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "缺少图片文件",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "读取图片失败: " + err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "读取图片失败: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.uploadService.UploadVariantImage(c.Request.Context(), draftID, c.Param("variant_id"), fileHeader.Filename, data)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}

// RemoveImage 删除变体图片
// @Summary 按位置删除变体图片
// @Tags Variant
// @Param draft_id path int true "草稿ID"
// @Param variant_id path string true "变体ID"
// @Param index path int true "图片位置（从 0 开始）"
// @Success 200 {object} map[string]interface{}
// @Router /api/drafts/{draft_id}/variants/{variant_id}/images/{index} [delete]
func (ctrl *DraftController) RemoveImage(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	imageIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil || imageIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的图片位置",
		})
		return
	}

	draft, err := ctrl.editorService.RemoveImage(c.Request.Context(), draftID, c.Param("variant_id"), imageIndex)
	if err != nil {
		draftError(c, err)
		return
	}
	draftOK(c, draft)
}
