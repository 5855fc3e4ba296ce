package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"mall_admin_v1_202609/internal/api/dto"
	"mall_admin_v1_202609/internal/model"
	"mall_admin_v1_202609/internal/repository"
	"mall_admin_v1_202609/pkg/backend"
	"mall_admin_v1_202609/pkg/utils"
)

// ==================== 缓存参数 ====================

const (
	productListCacheKey  = "catalog:products"
	sellerListCacheKey   = "catalog:products:seller"
	productListCacheTTL  = 30 * time.Second
	categoryListCacheKey = "catalog:categories"
	categoryListCacheTTL = 10 * time.Minute
)

// ==================== 服务实现 ====================

// CatalogService 商品目录服务
// 商品列表直接透传后端（短 TTL 缓存），分类走本地库缓存加定时同步。
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	client       BackendClient
}

// NewCatalogService 创建目录服务
func NewCatalogService(categoryRepo repository.CategoryRepository, client BackendClient) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		client:       client,
	}
}

// ==================== 商品列表 ====================

// ListProducts 查询商品列表，支持搜索/分类过滤/排序/分页
// 过滤排序都在内存做：后端只提供全量列表接口
func (s *CatalogService) ListProducts(ctx context.Context, query *dto.ProductQuery) (*dto.ProductPage, error) {
	products, err := s.fetchProducts(ctx, query.SellerOnly)
	if err != nil {
		return nil, err
	}

	filtered := filterProducts(products, query)
	sortProducts(filtered, query.SortBy, query.Order)

	total := len(filtered)
	page, pageSize := normalizePage(query.Page, query.PageSize)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &dto.ProductPage{
		Items:    filtered[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// FindProduct 按 ID 查找单个商品
func (s *CatalogService) FindProduct(ctx context.Context, productID string) (*backend.Product, error) {
	products, err := s.fetchProducts(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("商品不存在")
}

// DeleteProduct 删除后端商品，必须显式确认
func (s *CatalogService) DeleteProduct(ctx context.Context, productID string, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("删除操作需要确认")
	}
	if err := s.client.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("删除商品失败: %v", err)
	}
	s.InvalidateProducts()
	return nil
}

// InvalidateProducts 主动失效商品列表缓存（提交/删除之后调用）
func (s *CatalogService) InvalidateProducts() {
	utils.DeleteCache(productListCacheKey)
	utils.DeleteCache(sellerListCacheKey)
}

// InvalidateCategories 主动失效分类缓存
func (s *CatalogService) InvalidateCategories() {
	utils.DeleteCache(categoryListCacheKey)
}

func (s *CatalogService) fetchProducts(ctx context.Context, sellerOnly bool) ([]backend.Product, error) {
	cacheKey := productListCacheKey
	if sellerOnly {
		cacheKey = sellerListCacheKey
	}

	if cached, ok := utils.GetCache(cacheKey); ok {
		return cached.([]backend.Product), nil
	}

	var (
		products []backend.Product
		err      error
	)
	if sellerOnly {
		products, err = s.client.ListSellerProducts(ctx)
	} else {
		products, err = s.client.ListProducts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("获取商品列表失败: %v", err)
	}

	utils.SetCache(cacheKey, products, productListCacheTTL)
	return products, nil
}

// filterProducts 关键字匹配名称/品牌，分类按 ID 精确匹配
func filterProducts(products []backend.Product, query *dto.ProductQuery) []backend.Product {
	result := make([]backend.Product, 0, len(products))
	keyword := strings.ToLower(strings.TrimSpace(query.Keyword))

	for _, p := range products {
		if keyword != "" {
			name := strings.ToLower(p.Name)
			brand := strings.ToLower(p.Brand)
			if !strings.Contains(name, keyword) && !strings.Contains(brand, keyword) {
				continue
			}
		}
		if query.CategoryID != "" {
			if p.Category == nil || p.Category.ID != query.CategoryID {
				continue
			}
		}
		result = append(result, p)
	}
	return result
}

func sortProducts(products []backend.Product, sortBy, order string) {
	desc := order == "desc"
	switch sortBy {
	case "price":
		sort.SliceStable(products, func(i, j int) bool {
			if desc {
				return products[i].Price > products[j].Price
			}
			return products[i].Price < products[j].Price
		})
	case "stock":
		sort.SliceStable(products, func(i, j int) bool {
			if desc {
				return products[i].Stock > products[j].Stock
			}
			return products[i].Stock < products[j].Stock
		})
	case "name":
		sort.SliceStable(products, func(i, j int) bool {
			if desc {
				return products[i].Name > products[j].Name
			}
			return products[i].Name < products[j].Name
		})
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ==================== 分类 ====================

// Categories 分类列表，优先走本地缓存，缓存空时触发一次同步
func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	if cached, ok := utils.GetCache(categoryListCacheKey); ok {
		return cached.([]model.Category), nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取分类列表失败: %v", err)
	}
	if len(categories) == 0 {
		if err := s.RefreshCategories(ctx); err != nil {
			return nil, err
		}
		categories, err = s.categoryRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取分类列表失败: %v", err)
		}
	}

	utils.SetCache(categoryListCacheKey, categories, categoryListCacheTTL)
	return categories, nil
}

// GetCategory 按后端 ID 获取单个分类
func (s *CatalogService) GetCategory(ctx context.Context, remoteID string) (*model.Category, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].RemoteID == remoteID {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("商品分类不存在")
}

// RefreshCategories 从后端拉取分类并写入本地缓存表
func (s *CatalogService) RefreshCategories(ctx context.Context) error {
	remote, err := s.client.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("同步分类失败: %v", err)
	}

	categories := make([]model.Category, 0, len(remote))
	keepIDs := make([]string, 0, len(remote))
	for i := range remote {
		categories = append(categories, *model.NewCategoryFromBackend(&remote[i]))
		keepIDs = append(keepIDs, remote[i].ID)
	}

	if err := s.categoryRepo.UpsertBatch(ctx, categories); err != nil {
		return fmt.Errorf("写入分类缓存失败: %v", err)
	}
	if err := s.categoryRepo.DeleteMissing(ctx, keepIDs); err != nil {
		return fmt.Errorf("清理失效分类失败: %v", err)
	}

	utils.DeleteCache(categoryListCacheKey)
	log.Printf("[CatalogService] 分类同步完成，共 %d 条", len(categories))
	return nil
}

// ==================== 级联选项 ====================

// SectionOptions 返回分类下可选的分组标题，没有分组的分类返回空
func (s *CatalogService) SectionOptions(ctx context.Context, categoryID string) ([]string, error) {
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(category.Sections))
	for _, section := range category.Sections {
		titles = append(titles, section.Title)
	}
	return titles, nil
}

// SubCategoryOptions 返回子分类选项
// 有分组的分类从选中分组取，无分组的分类取平铺子分类列表
func (s *CatalogService) SubCategoryOptions(ctx context.Context, categoryID, sectionTitle string) ([]string, error) {
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.HasSections() {
		section := category.SectionByTitle(sectionTitle)
		if section == nil {
			return nil, fmt.Errorf("分组不存在")
		}
		return section.Items, nil
	}
	return category.SubCategories, nil
}

// ValidateSection 校验分组是否属于该分类
func (s *CatalogService) ValidateSection(ctx context.Context, categoryID, sectionTitle string) error {
	if sectionTitle == "" {
		return nil
	}
	if categoryID == "" {
		return fmt.Errorf("请先选择商品分类")
	}
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.SectionByTitle(sectionTitle) == nil {
		return fmt.Errorf("分组不存在")
	}
	return nil
}

// ValidateSubCategory 校验子分类是否在当前分类/分组的选项里
func (s *CatalogService) ValidateSubCategory(ctx context.Context, categoryID, sectionTitle, subCategory string) error {
	if subCategory == "" {
		return nil
	}
	if categoryID == "" {
		return fmt.Errorf("请先选择商品分类")
	}
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.HasSections() {
		if !category.SectionHasItem(sectionTitle, subCategory) {
			return fmt.Errorf("子分类不存在")
		}
		return nil
	}
	if !category.HasSubCategory(subCategory) {
		return fmt.Errorf("子分类不存在")
	}
	return nil
}
