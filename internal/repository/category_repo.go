package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall_admin_v1_202609/internal/model"
)

// ==================== 仓储接口 ====================

// CategoryRepository 分类缓存仓储接口
type CategoryRepository interface {
	UpsertBatch(ctx context.Context, categories []model.Category) error
	GetByRemoteID(ctx context.Context, remoteID string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	DeleteMissing(ctx context.Context, keepRemoteIDs []string) error
}

// ==================== 仓储实现 ====================

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类缓存仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// UpsertBatch 批量写入，remote_id 冲突时更新内容字段
func (r *categoryRepo) UpsertBatch(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "remote_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "sections", "sub_categories", "synced_at", "updated_at",
		}),
	}).Create(&categories).Error
}

func (r *categoryRepo) GetByRemoteID(ctx context.Context, remoteID string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("remote_id = ?", remoteID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// DeleteMissing 删除后端已不存在的分类缓存
func (r *categoryRepo) DeleteMissing(ctx context.Context, keepRemoteIDs []string) error {
	if len(keepRemoteIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("remote_id NOT IN ?", keepRemoteIDs).
		Delete(&model.Category{}).Error
}
