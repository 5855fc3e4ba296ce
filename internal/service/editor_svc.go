package service

import (
	"context"
	"fmt"

	"mall_admin_v1_202609/internal/api/dto"
	"mall_admin_v1_202609/internal/model"
	"mall_admin_v1_202609/internal/repository"
	"mall_admin_v1_202609/pkg/backend"
)

// ==================== 外部服务依赖 ====================

// BackendClient 商城后端客户端接口
// 实现见 pkg/backend，测试用 mock 替换
type BackendClient interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
	ListSellerProducts(ctx context.Context) ([]backend.Product, error)
	CreateProduct(ctx context.Context, payload backend.ProductPayload) (*backend.Product, error)
	UpdateProduct(ctx context.Context, id string, payload backend.ProductPayload) (*backend.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]backend.Category, error)
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// ==================== 服务实现 ====================

// EditorService 商品编辑器服务
// 持有草稿生命周期：打开（新建/编辑）、字段与变体修改、取消、提交。
// 所有变体操作整体替换草稿的变体序列，外部观察不到中间态。
type EditorService struct {
	draftRepo repository.DraftRepository
	catalog   *CatalogService
	client    BackendClient
}

// NewEditorService 创建编辑器服务
func NewEditorService(draftRepo repository.DraftRepository, catalog *CatalogService, client BackendClient) *EditorService {
	return &EditorService{
		draftRepo: draftRepo,
		catalog:   catalog,
		client:    client,
	}
}

// ==================== 打开 / 取消 ====================

// OpenEmpty 打开新建流程的空草稿
func (s *EditorService) OpenEmpty(ctx context.Context, ownerID int64) (*model.ProductDraft, error) {
	draft := model.NewEmptyDraft(ownerID)
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("创建草稿失败: %v", err)
	}
	return draft, nil
}

// OpenForProduct 打开编辑流程的草稿，从后端商品逐字段播种
// 同一商品已有打开的草稿时直接复用，避免同一编辑者的两份并行状态
func (s *EditorService) OpenForProduct(ctx context.Context, ownerID int64, productID string) (*model.ProductDraft, error) {
	if existing, err := s.draftRepo.GetByProductID(ctx, ownerID, productID); err == nil {
		return existing, nil
	}

	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	draft := model.NewDraftFromProduct(ownerID, product)
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("创建草稿失败: %v", err)
	}
	return draft, nil
}

// Get 获取草稿
func (s *EditorService) Get(ctx context.Context, draftID int64) (*model.ProductDraft, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("草稿不存在")
	}
	return draft, nil
}

// Cancel 取消编辑，草稿直接丢弃
func (s *EditorService) Cancel(ctx context.Context, draftID int64) error {
	if _, err := s.draftRepo.GetByID(ctx, draftID); err != nil {
		return fmt.Errorf("草稿不存在")
	}
	return s.draftRepo.Delete(ctx, draftID)
}

// ==================== 字段修改 ====================

// UpdateFields 更新草稿基础字段
// 分类/分组/子分类走级联规则：改分类清空分组和子分类，改分组清空子分类
func (s *EditorService) UpdateFields(ctx context.Context, draftID int64, req *dto.UpdateDraftRequest) (*model.ProductDraft, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("草稿不存在")
	}

	if req.Name != nil {
		draft.Name = *req.Name
	}
	if req.Description != nil {
		draft.Description = *req.Description
	}
	if req.Price != nil {
		draft.Price = *req.Price
	}
	if req.Stock != nil {
		draft.Stock = *req.Stock
	}
	if req.Brand != nil {
		draft.Brand = *req.Brand
	}
	if req.DiscountPercent != nil {
		draft.DiscountPercent = *req.DiscountPercent
	}
	if req.ShippingFee != nil {
		draft.ShippingFee = *req.ShippingFee
	}
	if req.Badge != nil {
		draft.Badge = *req.Badge
	}

	// 级联选择，顺序固定：分类 -> 分组 -> 子分类
	if req.CategoryID != nil && *req.CategoryID != draft.CategoryID {
		if _, err := s.catalog.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		draft.SelectCategory(*req.CategoryID)
	}
	if req.Section != nil {
		if err := s.catalog.ValidateSection(ctx, draft.CategoryID, *req.Section); err != nil {
			return nil, err
		}
		draft.SelectSection(*req.Section)
	}
	if req.SubCategory != nil {
		if err := s.catalog.ValidateSubCategory(ctx, draft.CategoryID, draft.Section, *req.SubCategory); err != nil {
			return nil, err
		}
		draft.SelectSubCategory(*req.SubCategory)
	}

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("保存草稿失败: %v", err)
	}
	return draft, nil
}

// ==================== 变体操作 ====================

// mutateVariants 读取草稿 -> 应用纯函数操作 -> 整体写回
func (s *EditorService) mutateVariants(ctx context.Context, draftID int64,
	mutate func(model.ColorVariantList) (model.ColorVariantList, error)) (*model.ProductDraft, error) {

	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("草稿不存在")
	}

	next, err := mutate(draft.ColorVariants)
	if err != nil {
		return nil, err
	}

	draft.ColorVariants = next
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("保存草稿失败: %v", err)
	}
	return draft, nil
}

// resolveVariantIndex 按稳定 ID 定位变体位置
func resolveVariantIndex(variants model.ColorVariantList, variantID string) (int, error) {
	idx := model.IndexByID(variants, variantID)
	if idx < 0 {
		return -1, model.ErrVariantNotFound
	}
	return idx, nil
}

// AddVariant 追加一个空白颜色变体
func (s *EditorService) AddVariant(ctx context.Context, draftID int64) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		return model.AddVariant(variants), nil
	})
}

// RemoveVariant 删除颜色变体
func (s *EditorService) RemoveVariant(ctx context.Context, draftID int64, variantID string) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		return model.RemoveVariant(variants, idx), nil
	})
}

// UpdateVariantField 更新变体单个字段（variantType 切换带清空/播种规则）
func (s *EditorService) UpdateVariantField(ctx context.Context, draftID int64, variantID, field string, value interface{}) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		return model.UpdateVariantField(variants, idx, field, value), nil
	})
}

// AddOption 为变体追加一条空白尺码/重量
func (s *EditorService) AddOption(ctx context.Context, draftID int64, variantID, kind string) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		switch kind {
		case model.VariantTypeSize:
			return model.AddSizeOption(variants, idx), nil
		case model.VariantTypeWeight:
			return model.AddWeightOption(variants, idx), nil
		}
		return nil, model.ErrInvalidVariantType
	})
}

// RemoveOption 删除尺码/重量子选项
func (s *EditorService) RemoveOption(ctx context.Context, draftID int64, variantID, kind, optionID string) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		switch kind {
		case model.VariantTypeSize:
			for i, opt := range variants[idx].Sizes {
				if opt.ID == optionID {
					return model.RemoveSizeOption(variants, idx, i), nil
				}
			}
			return nil, fmt.Errorf("尺码选项不存在")
		case model.VariantTypeWeight:
			for i, opt := range variants[idx].Weights {
				if opt.ID == optionID {
					return model.RemoveWeightOption(variants, idx, i), nil
				}
			}
			return nil, fmt.Errorf("重量选项不存在")
		}
		return nil, model.ErrInvalidVariantType
	})
}

// UpdateOption 更新尺码/重量子选项的单个字段
func (s *EditorService) UpdateOption(ctx context.Context, draftID int64, variantID, kind, optionID, field string, value interface{}) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		switch kind {
		case model.VariantTypeSize:
			for i, opt := range variants[idx].Sizes {
				if opt.ID == optionID {
					return model.UpdateSizeOption(variants, idx, i, field, value), nil
				}
			}
			return nil, fmt.Errorf("尺码选项不存在")
		case model.VariantTypeWeight:
			for i, opt := range variants[idx].Weights {
				if opt.ID == optionID {
					return model.UpdateWeightOption(variants, idx, i, field, value), nil
				}
			}
			return nil, fmt.Errorf("重量选项不存在")
		}
		return nil, model.ErrInvalidVariantType
	})
}

// AttachImage 追加图片 URL（超过 5 张时拒绝，不落地）
func (s *EditorService) AttachImage(ctx context.Context, draftID int64, variantID, url string) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		return model.AddVariantImage(variants, idx, url)
	})
}

// RemoveImage 按位置删除图片
func (s *EditorService) RemoveImage(ctx context.Context, draftID int64, variantID string, imageIndex int) (*model.ProductDraft, error) {
	return s.mutateVariants(ctx, draftID, func(variants model.ColorVariantList) (model.ColorVariantList, error) {
		idx, err := resolveVariantIndex(variants, variantID)
		if err != nil {
			return nil, err
		}
		return model.RemoveVariantImage(variants, idx, imageIndex), nil
	})
}

// CanAttachImage 图片数量预检，上传前调用，已满直接拦截不发网络请求
func (s *EditorService) CanAttachImage(ctx context.Context, draftID int64, variantID string) error {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return fmt.Errorf("草稿不存在")
	}
	idx, err := resolveVariantIndex(draft.ColorVariants, variantID)
	if err != nil {
		return err
	}
	if len(draft.ColorVariants[idx].Images) >= model.MaxVariantImages {
		return model.ErrImageLimit
	}
	return nil
}

// ==================== 汇总 ====================

// Summary 草稿的展示汇总，每次读取重新计算
func (s *EditorService) Summary(ctx context.Context, draftID int64) (*dto.DraftSummary, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("草稿不存在")
	}
	return &dto.DraftSummary{
		TotalStock:   draft.DisplayStock(),
		VariantCount: model.VariantCount(draft.ColorVariants),
	}, nil
}

// ==================== 提交 ====================

// Submit 提交草稿
// 校验 -> 序列化 -> 按模式走创建或更新 -> 成功后删除草稿并失效商品列表缓存。
// 网络失败时草稿原样保留，不做任何部分应用。
func (s *EditorService) Submit(ctx context.Context, draftID int64) (*backend.Product, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("草稿不存在")
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	payload := draft.SubmissionPayload()

	var product *backend.Product
	if draft.Mode == model.DraftModeEdit && draft.ProductID != "" {
		product, err = s.client.UpdateProduct(ctx, draft.ProductID, payload)
	} else {
		product, err = s.client.CreateProduct(ctx, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("提交商品失败: %v", err)
	}

	// 草稿不是权威记录，提交成功即丢弃；删除失败只影响清理，不影响提交结果
	_ = s.draftRepo.Delete(ctx, draftID)
	s.catalog.InvalidateProducts()

	return product, nil
}
