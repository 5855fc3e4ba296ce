package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// ==================== 变体常量 ====================

const (
	// 变体类型：同一时刻只有一种形态生效
	VariantTypeNone   = "none"   // 仅颜色，库存记在变体本身
	VariantTypeSize   = "size"   // 按尺码细分
	VariantTypeWeight = "weight" // 按重量细分

	// 每个颜色变体的图片上限
	MaxVariantImages = 5

	// 新建变体的默认色值
	DefaultColorCode = "#000000"
)

// 本地校验错误（提交前拦截，不发请求）
var (
	ErrImageLimit         = errors.New("每个颜色变体最多上传 5 张图片")
	ErrVariantNotFound    = errors.New("颜色变体不存在")
	ErrInvalidVariantType = errors.New("无效的变体类型")
)

// ==================== 数据结构 ====================

// SizeOption 尺码子选项
// Price 是在商品基础价之上的加价，不是替换价
type SizeOption struct {
	ID    string  `json:"id"`
	Size  string  `json:"size"`
	Stock int     `json:"stock"`
	Price float64 `json:"price"`
}

// WeightOption 重量子选项，语义与 SizeOption 相同
type WeightOption struct {
	ID     string  `json:"id"`
	Weight string  `json:"weight"`
	Stock  int     `json:"stock"`
	Price  float64 `json:"price"`
}

// ColorVariant 颜色变体
// VariantType 决定哪个形态生效：none 用 Stock，size 用 Sizes，weight 用 Weights
// ID 是创建时分配的稳定标识，外部引用（如待上传的文件句柄）应按 ID 寻址，
// 位置索引在删除后会整体前移
type ColorVariant struct {
	ID          string         `json:"id"`
	ColorName   string         `json:"colorName"`
	ColorCode   string         `json:"colorCode"` // 十六进制色值文本，不做强校验
	VariantType string         `json:"variantType"`
	Stock       int            `json:"stock"`
	Sizes       []SizeOption   `json:"sizes"`
	Weights     []WeightOption `json:"weights"`
	Images      []string       `json:"images"`
}

// ColorVariantList 颜色变体序列（jsonb 存储，插入顺序即展示顺序）
type ColorVariantList []ColorVariant

func (l ColorVariantList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *ColorVariantList) Scan(value interface{}) error {
	if value == nil {
		*l = ColorVariantList{}
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

// ==================== 变体编辑操作 ====================
// 所有操作都返回新的完整序列，调用方整体替换草稿状态，
// 外部观察不到部分修改的中间态。越界索引一律 no-op。

// AddVariant 追加一个空白颜色变体
func AddVariant(variants ColorVariantList) ColorVariantList {
	next := cloneVariants(variants)
	return append(next, ColorVariant{
		ID:          uuid.NewString(),
		ColorName:   "",
		ColorCode:   DefaultColorCode,
		VariantType: VariantTypeNone,
		Stock:       0,
		Sizes:       []SizeOption{},
		Weights:     []WeightOption{},
		Images:      []string{},
	})
}

// RemoveVariant 按位置删除变体，后续索引整体前移
func RemoveVariant(variants ColorVariantList, index int) ColorVariantList {
	if index < 0 || index >= len(variants) {
		return variants
	}
	next := cloneVariants(variants)
	return append(next[:index], next[index+1:]...)
}

// UpdateVariantField 更新变体的单个字段
// field == variantType 时按切换规则清空不再生效的形态：
// 切到 none 清空 sizes/weights；切到 size 清空 weights，且原 sizes 为空时
// 播种一条空白尺码；切到 weight 对称处理。规则基于覆盖前的旧值判断。
func UpdateVariantField(variants ColorVariantList, index int, field string, value interface{}) ColorVariantList {
	if index < 0 || index >= len(variants) {
		return variants
	}
	next := cloneVariants(variants)
	v := &next[index]

	switch field {
	case "colorName":
		v.ColorName = toString(value)
	case "colorCode":
		v.ColorCode = toString(value)
	case "stock":
		v.Stock = toInt(value)
	case "variantType":
		applyTypeTransition(v, toString(value))
	}

	return next
}

// applyTypeTransition 执行变体类型切换的清空/播种规则
// 注意：size -> weight -> size 往返会丢失原有尺码（观察到的既有行为，按原样保留）
func applyTypeTransition(v *ColorVariant, newType string) {
	switch newType {
	case VariantTypeNone:
		v.Sizes = []SizeOption{}
		v.Weights = []WeightOption{}
	case VariantTypeSize:
		v.Weights = []WeightOption{}
		if len(v.Sizes) == 0 {
			v.Sizes = []SizeOption{blankSizeOption()}
		}
	case VariantTypeWeight:
		v.Sizes = []SizeOption{}
		if len(v.Weights) == 0 {
			v.Weights = []WeightOption{blankWeightOption()}
		}
	default:
		// 未知类型不落地
		return
	}
	v.VariantType = newType
}

// AddSizeOption 为指定变体追加一条空白尺码
func AddSizeOption(variants ColorVariantList, variantIndex int) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	next := cloneVariants(variants)
	next[variantIndex].Sizes = append(next[variantIndex].Sizes, blankSizeOption())
	return next
}

// RemoveSizeOption 按位置删除尺码
func RemoveSizeOption(variants ColorVariantList, variantIndex, sizeIndex int) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	sizes := variants[variantIndex].Sizes
	if sizeIndex < 0 || sizeIndex >= len(sizes) {
		return variants
	}
	next := cloneVariants(variants)
	next[variantIndex].Sizes = append(next[variantIndex].Sizes[:sizeIndex], next[variantIndex].Sizes[sizeIndex+1:]...)
	return next
}

// UpdateSizeOption 更新尺码的单个字段
func UpdateSizeOption(variants ColorVariantList, variantIndex, sizeIndex int, field string, value interface{}) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	if sizeIndex < 0 || sizeIndex >= len(variants[variantIndex].Sizes) {
		return variants
	}
	next := cloneVariants(variants)
	opt := &next[variantIndex].Sizes[sizeIndex]
	switch field {
	case "size":
		opt.Size = toString(value)
	case "stock":
		opt.Stock = toInt(value)
	case "price":
		opt.Price = toFloat(value)
	}
	return next
}

// AddWeightOption 为指定变体追加一条空白重量
func AddWeightOption(variants ColorVariantList, variantIndex int) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	next := cloneVariants(variants)
	next[variantIndex].Weights = append(next[variantIndex].Weights, blankWeightOption())
	return next
}

// RemoveWeightOption 按位置删除重量
func RemoveWeightOption(variants ColorVariantList, variantIndex, weightIndex int) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	weights := variants[variantIndex].Weights
	if weightIndex < 0 || weightIndex >= len(weights) {
		return variants
	}
	next := cloneVariants(variants)
	next[variantIndex].Weights = append(next[variantIndex].Weights[:weightIndex], next[variantIndex].Weights[weightIndex+1:]...)
	return next
}

// UpdateWeightOption 更新重量的单个字段
func UpdateWeightOption(variants ColorVariantList, variantIndex, weightIndex int, field string, value interface{}) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	if weightIndex < 0 || weightIndex >= len(variants[variantIndex].Weights) {
		return variants
	}
	next := cloneVariants(variants)
	opt := &next[variantIndex].Weights[weightIndex]
	switch field {
	case "weight":
		opt.Weight = toString(value)
	case "stock":
		opt.Stock = toInt(value)
	case "price":
		opt.Price = toFloat(value)
	}
	return next
}

// AddVariantImage 追加图片 URL
// 已有 5 张时拒绝：返回原序列和 ErrImageLimit，不触发任何网络调用
func AddVariantImage(variants ColorVariantList, variantIndex int, url string) (ColorVariantList, error) {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants, ErrVariantNotFound
	}
	if len(variants[variantIndex].Images) >= MaxVariantImages {
		return variants, ErrImageLimit
	}
	next := cloneVariants(variants)
	next[variantIndex].Images = append(next[variantIndex].Images, url)
	return next, nil
}

// RemoveVariantImage 按位置删除图片
func RemoveVariantImage(variants ColorVariantList, variantIndex, imageIndex int) ColorVariantList {
	if variantIndex < 0 || variantIndex >= len(variants) {
		return variants
	}
	images := variants[variantIndex].Images
	if imageIndex < 0 || imageIndex >= len(images) {
		return variants
	}
	next := cloneVariants(variants)
	next[variantIndex].Images = append(next[variantIndex].Images[:imageIndex], next[variantIndex].Images[imageIndex+1:]...)
	return next
}

// IndexByID 按稳定 ID 定位变体，找不到返回 -1
func IndexByID(variants ColorVariantList, id string) int {
	for i := range variants {
		if variants[i].ID == id {
			return i
		}
	}
	return -1
}

// ==================== 汇总计算 ====================
// 纯只读归约，每次渲染重新计算

// TotalStock 汇总总库存
// size 形态累加 sizes[].stock，weight 形态累加 weights[].stock，
// 其余用变体自身 stock；缺失按 0 处理
func TotalStock(variants ColorVariantList) int {
	total := 0
	for _, v := range variants {
		switch v.VariantType {
		case VariantTypeSize:
			for _, s := range v.Sizes {
				total += s.Stock
			}
		case VariantTypeWeight:
			for _, w := range v.Weights {
				total += w.Stock
			}
		default:
			total += v.Stock
		}
	}
	return total
}

// VariantCount 变体数量
func VariantCount(variants ColorVariantList) int {
	return len(variants)
}

// ==================== 内部辅助 ====================

func blankSizeOption() SizeOption {
	return SizeOption{ID: uuid.NewString(), Size: "", Stock: 0, Price: 0}
}

func blankWeightOption() WeightOption {
	return WeightOption{ID: uuid.NewString(), Weight: "", Stock: 0, Price: 0}
}

// cloneVariants 深拷贝变体序列，保证操作不污染旧切片
func cloneVariants(variants ColorVariantList) ColorVariantList {
	next := make(ColorVariantList, len(variants))
	for i, v := range variants {
		nv := v
		nv.Sizes = append([]SizeOption{}, v.Sizes...)
		nv.Weights = append([]WeightOption{}, v.Weights...)
		nv.Images = append([]string{}, v.Images...)
		next[i] = nv
	}
	return next
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		// JSON 数字默认解析为 float64
		return int(val)
	case json.Number:
		i, _ := val.Int64()
		return int(i)
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	}
	return 0
}
