package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mall_admin_v1_202609/internal/model"
)

// ==================== 仓储接口 ====================

// DraftRepository 商品草稿仓储接口
type DraftRepository interface {
	Create(ctx context.Context, draft *model.ProductDraft) error
	GetByID(ctx context.Context, id int64) (*model.ProductDraft, error)
	Update(ctx context.Context, draft *model.ProductDraft) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.ProductDraft, error)
	GetByProductID(ctx context.Context, ownerID int64, productID string) (*model.ProductDraft, error)

	// 过期清理相关
	FindStale(ctx context.Context, before time.Time) ([]*model.ProductDraft, error)
}

// ==================== 仓储实现 ====================

type draftRepo struct {
	db *gorm.DB
}

// NewDraftRepository 创建草稿仓储
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, draft *model.ProductDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *draftRepo) GetByID(ctx context.Context, id int64) (*model.ProductDraft, error) {
	var draft model.ProductDraft
	if err := r.db.WithContext(ctx).First(&draft, id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepo) Update(ctx context.Context, draft *model.ProductDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *draftRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.ProductDraft{}).Where("id = ?", id).Updates(fields).Error
}

func (r *draftRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductDraft{}, id).Error
}

func (r *draftRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.ProductDraft, error) {
	var drafts []model.ProductDraft
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&drafts).Error
	return drafts, err
}

// GetByProductID 查找某个后端商品已打开的编辑草稿（同一商品同一编辑者最多一个）
func (r *draftRepo) GetByProductID(ctx context.Context, ownerID int64, productID string) (*model.ProductDraft, error) {
	var draft model.ProductDraft
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindStale 查找长时间未更新的草稿（编辑器被直接关闭、没有显式取消）
func (r *draftRepo) FindStale(ctx context.Context, before time.Time) ([]*model.ProductDraft, error) {
	var drafts []*model.ProductDraft
	err := r.db.WithContext(ctx).
		Where("updated_at < ?", before).
		Find(&drafts).Error
	return drafts, err
}
