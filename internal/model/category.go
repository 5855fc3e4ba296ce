package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"mall_admin_v1_202609/pkg/backend"
)

// ==================== JSON 类型 ====================

// CategorySection 分类下的命名分组
type CategorySection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// SectionList 命名分组序列（jsonb 存储）
type SectionList []CategorySection

func (l SectionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *SectionList) Scan(value interface{}) error {
	if value == nil {
		*l = SectionList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// ==================== 数据库模型 ====================

// Category 分类本地缓存
// 来源是后端 GET /categories，定时任务增量刷新。
// 两种形态二选一：Sections 为二级分组（分组名 -> 条目），
// SubCategories 为扁平子分类名列表。
type Category struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	RemoteID      string         `gorm:"size:64;uniqueIndex;not null;comment:后端分类ID"`
	Name          string         `gorm:"size:128;index;comment:分类名称"`
	Sections      SectionList    `gorm:"type:jsonb;comment:二级分组"`
	SubCategories pq.StringArray `gorm:"type:text[];comment:扁平子分类名"`
	SyncedAt      time.Time      `gorm:"index;comment:最近同步时间"`
}

func (*Category) TableName() string {
	return "categories"
}

// ==================== 构造 ====================

// NewCategoryFromBackend 从后端分类转换为缓存记录
func NewCategoryFromBackend(c *backend.Category) *Category {
	cached := &Category{
		RemoteID: c.ID,
		Name:     c.Name,
		Sections: SectionList{},
		SyncedAt: time.Now(),
	}

	for _, s := range c.MainSubcategories {
		cached.Sections = append(cached.Sections, CategorySection{
			Title: s.Title,
			Items: append([]string{}, s.Items...),
		})
	}
	for _, s := range c.SubCategories {
		cached.SubCategories = append(cached.SubCategories, s.Name)
	}

	return cached
}

// ==================== 查询辅助 ====================

// HasSections 是否为二级分组形态
func (c *Category) HasSections() bool {
	return len(c.Sections) > 0
}

// SectionByTitle 按分组名查找，找不到返回 nil
func (c *Category) SectionByTitle(title string) *CategorySection {
	for i := range c.Sections {
		if c.Sections[i].Title == title {
			return &c.Sections[i]
		}
	}
	return nil
}

// HasSubCategory 扁平形态下是否包含指定子分类
func (c *Category) HasSubCategory(name string) bool {
	for _, s := range c.SubCategories {
		if s == name {
			return true
		}
	}
	return false
}

// SectionHasItem 指定分组下是否包含条目
func (c *Category) SectionHasItem(title, item string) bool {
	section := c.SectionByTitle(title)
	if section == nil {
		return false
	}
	for _, it := range section.Items {
		if it == item {
			return true
		}
	}
	return false
}
