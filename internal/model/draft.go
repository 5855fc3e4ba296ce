package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mall_admin_v1_202609/pkg/backend"
)

// ==================== 草稿模式 ====================

const (
	DraftModeCreate = "create" // 新建商品
	DraftModeEdit   = "edit"   // 编辑已有商品
)

// ==================== 数据库模型 ====================

// ProductDraft 商品编辑草稿
// 编辑器打开期间的会话状态，不是商品的权威记录：
// 取消时删除，提交成功后删除并由前端重新拉取商品列表。
// 数值输入（价格/库存/折扣/运费）按字符串存储，空值在输入框渲染为空白而不是 0。
type ProductDraft struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	OwnerID   int64  `gorm:"index;not null;comment:编辑者ID"`
	Mode      string `gorm:"size:16;default:create;comment:create/edit"`
	ProductID string `gorm:"size:64;index;comment:编辑模式下后端商品ID"`

	Name            string `gorm:"size:255;comment:商品名称"`
	Description     string `gorm:"type:text;comment:商品描述"`
	Price           string `gorm:"size:32;comment:价格输入"`
	Stock           string `gorm:"size:32;comment:库存输入(无变体库存时生效)"`
	CategoryID      string `gorm:"size:64;index;comment:分类ID"`
	Section         string `gorm:"size:128;comment:分类命名分组"`
	SubCategory     string `gorm:"size:128;comment:子分类"`
	Brand           string `gorm:"size:128;comment:品牌"`
	DiscountPercent string `gorm:"size:32;comment:折扣百分比输入"`
	ShippingFee     string `gorm:"size:32;comment:运费输入"`
	Badge           string `gorm:"size:64;comment:角标"`

	ColorVariants ColorVariantList `gorm:"type:jsonb;comment:颜色变体"`
}

func (*ProductDraft) TableName() string {
	return "product_drafts"
}

// ==================== 构造 ====================

// NewEmptyDraft 新建流程的空草稿
// 字符串字段全空，数值字段保持空字符串，变体序列为空
func NewEmptyDraft(ownerID int64) *ProductDraft {
	return &ProductDraft{
		OwnerID:       ownerID,
		Mode:          DraftModeCreate,
		ColorVariants: ColorVariantList{},
	}
}

// NewDraftFromProduct 编辑流程：从后端商品逐字段拷贝
// 缺失的可选字段回落为空字符串/零，colorVariants 缺失时回落为空序列
func NewDraftFromProduct(ownerID int64, p *backend.Product) *ProductDraft {
	draft := &ProductDraft{
		OwnerID:         ownerID,
		Mode:            DraftModeEdit,
		ProductID:       p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           formatFloat(p.Price),
		Stock:           strconv.Itoa(p.Stock),
		Section:         p.Section,
		SubCategory:     p.SubCategory,
		Brand:           p.Brand,
		Badge:           p.Badge,
		DiscountPercent: formatFloat(p.Discount),
		ShippingFee:     formatFloat(p.ShippingFee),
		ColorVariants:   ColorVariantList{},
	}

	if p.Category != nil {
		draft.CategoryID = p.Category.ID
	}

	if len(p.ColorVariants) > 0 {
		var variants ColorVariantList
		if err := json.Unmarshal(p.ColorVariants, &variants); err == nil {
			draft.ColorVariants = variants
		}
	}
	// 历史数据可能没有稳定 ID，读入时补齐
	ensureVariantIDs(draft.ColorVariants)

	return draft
}

// ==================== 分类级联选择 ====================
// 依赖式下拉：改分类清空分组和子分类，改分组清空子分类。
// 只由用户显式选择触发，没有后台事件驱动的迁移。

// SelectCategory 选择分类
func (d *ProductDraft) SelectCategory(categoryID string) {
	d.CategoryID = categoryID
	d.Section = ""
	d.SubCategory = ""
}

// SelectSection 选择命名分组
func (d *ProductDraft) SelectSection(section string) {
	d.Section = section
	d.SubCategory = ""
}

// SelectSubCategory 选择子分类
func (d *ProductDraft) SelectSubCategory(subCategory string) {
	d.SubCategory = subCategory
}

// ==================== 提交边界 ====================

// draftRules 提交前校验规则
type draftRules struct {
	Name       string  `validate:"required"`
	CategoryID string  `validate:"required"`
	Price      float64 `validate:"gte=0"`
}

var draftValidator = validator.New()

// Validate 提交前同步校验，失败时不发任何请求
func (d *ProductDraft) Validate() error {
	rules := draftRules{
		Name:       strings.TrimSpace(d.Name),
		CategoryID: d.CategoryID,
		Price:      parseDecimal(d.Price),
	}
	if err := draftValidator.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Name":
				return errors.New("商品名称不能为空")
			case "CategoryID":
				return errors.New("请选择商品分类")
			case "Price":
				return errors.New("价格不能为负数")
			}
		}
		return err
	}
	return nil
}

// SubmissionPayload 转换为提交负载
// 字符串数值解析为数值类型：price/shippingFee/discount 按十进制解析，
// stock 按整数解析，解析失败一律回落为 0；变体结构原样透传
func (d *ProductDraft) SubmissionPayload() backend.ProductPayload {
	variantBytes, err := json.Marshal(d.ColorVariants)
	if err != nil || d.ColorVariants == nil {
		variantBytes = []byte("[]")
	}

	return backend.ProductPayload{
		Name:          d.Name,
		Description:   d.Description,
		Price:         parseDecimal(d.Price),
		Stock:         parseInt(d.Stock),
		Category:      d.CategoryID,
		Section:       d.Section,
		SubCategory:   d.SubCategory,
		Brand:         d.Brand,
		Discount:      parseDecimal(d.DiscountPercent),
		Badge:         d.Badge,
		ShippingFee:   parseDecimal(d.ShippingFee),
		ColorVariants: variantBytes,
	}
}

// ==================== 展示辅助 ====================

// DisplayStock 列表/汇总展示用的库存
// 有颜色变体时取变体汇总，否则取草稿自身的库存输入
func (d *ProductDraft) DisplayStock() int {
	if len(d.ColorVariants) > 0 {
		return TotalStock(d.ColorVariants)
	}
	return parseInt(d.Stock)
}

// ==================== 解析辅助 ====================

// parseDecimal 十进制解析，失败回落为 0
func parseDecimal(s string) float64 {
	dec, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := dec.Float64()
	return f
}

// parseInt 整数解析，失败回落为 0
func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// formatFloat 数值转输入框字符串
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ensureVariantIDs 给缺少稳定 ID 的变体数据补 ID
func ensureVariantIDs(variants ColorVariantList) {
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.NewString()
		}
		for j := range variants[i].Sizes {
			if variants[i].Sizes[j].ID == "" {
				variants[i].Sizes[j].ID = uuid.NewString()
			}
		}
		for j := range variants[i].Weights {
			if variants[i].Weights[j].ID == "" {
				variants[i].Weights[j].ID = uuid.NewString()
			}
		}
	}
}
