package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 后端数据结构 ====================
// 商城后端（外部协作方）的线上格式，实现不在本仓库范围内

// Product 后端持久化的商品
type Product struct {
	ID            string           `json:"_id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	Stock         int              `json:"stock"`
	Category      *ProductCategory `json:"category"` // 关联对象，可能为 null
	Section       string           `json:"section"`
	SubCategory   string           `json:"subCategory"`
	Brand         string           `json:"brand"`
	Discount      float64          `json:"discount"`
	Badge         string           `json:"badge"`
	ShippingFee   float64          `json:"shippingFee"`
	ColorVariants json.RawMessage  `json:"colorVariants"` // 变体结构由上层解析
}

// ProductCategory 商品上联查出来的分类摘要
type ProductCategory struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ProductPayload 创建/更新商品的提交负载
type ProductPayload struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         float64         `json:"price"`
	Stock         int             `json:"stock"`
	Category      string          `json:"category"`
	Section       string          `json:"section,omitempty"`
	SubCategory   string          `json:"subCategory,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Discount      float64         `json:"discount,omitempty"`
	Badge         string          `json:"badge,omitempty"`
	ShippingFee   float64         `json:"shippingFee"`
	ColorVariants json.RawMessage `json:"colorVariants"`
}

// Category 后端分类
// 二选一：MainSubcategories 为二级分组（section -> items），
// SubCategories 为扁平子分类列表
type Category struct {
	ID                string            `json:"_id"`
	Name              string            `json:"name"`
	MainSubcategories []CategorySection `json:"mainSubcategories,omitempty"`
	SubCategories     []SubCategory     `json:"subCategories,omitempty"`
}

// CategorySection 分类下的命名分组
type CategorySection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// SubCategory 扁平子分类
type SubCategory struct {
	Name string `json:"name"`
}

// UploadResult 图片上传结果
type UploadResult struct {
	URL string `json:"url"`
}

// ==================== 客户端 ====================

// Config 客户端配置
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client 商城后端 REST 客户端
type Client struct {
	http *resty.Client
}

// NewClient 创建后端客户端
func NewClient(cfg *Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 2
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &Client{http: client}
}

// ListProducts 拉取全量商品列表
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("请求商品列表失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiError(resp)
	}
	return products, nil
}

// ListSellerProducts 拉取当前卖家的商品列表
func (c *Client) ListSellerProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		Get("/products/seller/my-products")
	if err != nil {
		return nil, fmt.Errorf("请求卖家商品列表失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiError(resp)
	}
	return products, nil
}

// CreateProduct 创建商品
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*Product, error) {
	var created Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		Post("/products")
	if err != nil {
		return nil, fmt.Errorf("创建商品请求失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, apiError(resp)
	}
	return &created, nil
}

// UpdateProduct 更新商品
func (c *Client) UpdateProduct(ctx context.Context, id string, payload ProductPayload) (*Product, error) {
	var updated Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&updated).
		Put("/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("更新商品请求失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiError(resp)
	}
	return &updated, nil
}

// DeleteProduct 删除商品
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/products/" + id)
	if err != nil {
		return fmt.Errorf("删除商品请求失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// ListCategories 拉取分类列表
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&categories).
		Get("/categories")
	if err != nil {
		return nil, fmt.Errorf("请求分类列表失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiError(resp)
	}
	return categories, nil
}

// UploadImage 上传图片（multipart），成功返回托管 URL
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var result UploadResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("image", filename, bytes.NewReader(data)).
		SetResult(&result).
		Post("/uploads/image")
	if err != nil {
		return "", fmt.Errorf("上传图片请求失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", apiError(resp)
	}
	if result.URL == "" {
		return "", fmt.Errorf("上传响应缺少 url 字段")
	}
	return result.URL, nil
}

// apiError 把非 2xx 响应转为错误
func apiError(resp *resty.Response) error {
	return fmt.Errorf("后端接口错误 [%d]: %s", resp.StatusCode(), resp.String())
}
