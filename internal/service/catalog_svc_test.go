package service

import (
	"context"
	"errors"
	"testing"

	"mall_admin_v1_202609/internal/api/dto"
	"mall_admin_v1_202609/internal/repository"
	"mall_admin_v1_202609/pkg/backend"
)

// setupCatalog 组装目录服务
func setupCatalog(t *testing.T, mock *mockBackend) (*CatalogService, repository.CategoryRepository) {
	t.Helper()
	clearCatalogCache()

	db := setupTestDB(t)
	categoryRepo := repository.NewCategoryRepository(db)
	return NewCatalogService(categoryRepo, mock), categoryRepo
}

func demoProducts() []backend.Product {
	return []backend.Product{
		{ID: "p-1", Name: "羊毛围巾", Brand: "素白", Price: 89, Stock: 5, Category: &backend.ProductCategory{ID: "c-1"}},
		{ID: "p-2", Name: "帆布包", Brand: "山城", Price: 45, Stock: 20, Category: &backend.ProductCategory{ID: "c-2"}},
		{ID: "p-3", Name: "羊毛手套", Brand: "素白", Price: 39, Stock: 12, Category: &backend.ProductCategory{ID: "c-1"}},
	}
}

// ==================== 商品列表 ====================

func TestListProductsKeywordFilter(t *testing.T) {
	catalog, _ := setupCatalog(t, &mockBackend{
		listProductsFunc: func(ctx context.Context) ([]backend.Product, error) {
			return demoProducts(), nil
		},
	})

	page, err := catalog.ListProducts(context.Background(), &dto.ProductQuery{Keyword: "羊毛"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("关键字应命中 2 条, 实际 %d", page.Total)
	}

	// 品牌也参与匹配
	page, _ = catalog.ListProducts(context.Background(), &dto.ProductQuery{Keyword: "山城"})
	if page.Total != 1 || page.Items[0].ID != "p-2" {
		t.Errorf("品牌匹配不符, 实际 %+v", page.Items)
	}
}

func TestListProductsCategoryFilterAndSort(t *testing.T) {
	catalog, _ := setupCatalog(t, &mockBackend{
		listProductsFunc: func(ctx context.Context) ([]backend.Product, error) {
			return demoProducts(), nil
		},
	})

	page, err := catalog.ListProducts(context.Background(), &dto.ProductQuery{
		CategoryID: "c-1",
		SortBy:     "price",
		Order:      "desc",
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("分类过滤应剩 2 条, 实际 %d", page.Total)
	}
	if page.Items[0].ID != "p-1" || page.Items[1].ID != "p-3" {
		t.Errorf("按价格降序不符, 实际 %s %s", page.Items[0].ID, page.Items[1].ID)
	}
}

func TestListProductsPagination(t *testing.T) {
	catalog, _ := setupCatalog(t, &mockBackend{
		listProductsFunc: func(ctx context.Context) ([]backend.Product, error) {
			return demoProducts(), nil
		},
	})

	page, _ := catalog.ListProducts(context.Background(), &dto.ProductQuery{Page: 2, PageSize: 2})
	if page.Total != 3 {
		t.Errorf("总数应为 3, 实际 %d", page.Total)
	}
	if len(page.Items) != 1 {
		t.Errorf("第二页应剩 1 条, 实际 %d", len(page.Items))
	}

	// 越界页返回空列表而不是报错
	page, _ = catalog.ListProducts(context.Background(), &dto.ProductQuery{Page: 9, PageSize: 2})
	if len(page.Items) != 0 {
		t.Errorf("越界页应为空, 实际 %d 条", len(page.Items))
	}
}

func TestListProductsUsesCache(t *testing.T) {
	calls := 0
	catalog, _ := setupCatalog(t, &mockBackend{
		listProductsFunc: func(ctx context.Context) ([]backend.Product, error) {
			calls++
			return demoProducts(), nil
		},
	})

	ctx := context.Background()
	catalog.ListProducts(ctx, &dto.ProductQuery{})
	catalog.ListProducts(ctx, &dto.ProductQuery{Keyword: "帆布"})
	if calls != 1 {
		t.Errorf("TTL 内应命中缓存, 实际请求 %d 次", calls)
	}

	catalog.InvalidateProducts()
	catalog.ListProducts(ctx, &dto.ProductQuery{})
	if calls != 2 {
		t.Errorf("失效后应重新请求, 实际 %d 次", calls)
	}
}

// ==================== 删除确认 ====================

func TestDeleteProductRequiresConfirm(t *testing.T) {
	deleted := 0
	catalog, _ := setupCatalog(t, &mockBackend{
		deleteProductFunc: func(ctx context.Context, id string) error {
			deleted++
			return nil
		},
	})
	ctx := context.Background()

	err := catalog.DeleteProduct(ctx, "p-1", false)
	if err == nil || err.Error() != "删除操作需要确认" {
		t.Fatalf("未确认应拒绝, 实际 %v", err)
	}
	if deleted != 0 {
		t.Error("未确认不应发删除请求")
	}

	if err := catalog.DeleteProduct(ctx, "p-1", true); err != nil {
		t.Fatalf("确认后删除失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("应调用一次删除接口, 实际 %d", deleted)
	}
}

// ==================== 分类同步 ====================

func remoteCategories() []backend.Category {
	return []backend.Category{
		{
			ID:   "c-1",
			Name: "服饰",
			MainSubcategories: []backend.CategorySection{
				{Title: "男装", Items: []string{"衬衫", "外套"}},
				{Title: "女装", Items: []string{"连衣裙"}},
			},
		},
		{
			ID:            "c-2",
			Name:          "配饰",
			SubCategories: []backend.SubCategory{{Name: "围巾"}, {Name: "手套"}},
		},
	}
}

func TestRefreshCategories(t *testing.T) {
	catalog, categoryRepo := setupCatalog(t, &mockBackend{
		listCategoriesFunc: func(ctx context.Context) ([]backend.Category, error) {
			return remoteCategories(), nil
		},
	})
	ctx := context.Background()

	if err := catalog.RefreshCategories(ctx); err != nil {
		t.Fatalf("同步失败: %v", err)
	}

	cached, err := categoryRepo.List(ctx)
	if err != nil {
		t.Fatalf("读取缓存表失败: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("应缓存 2 个分类, 实际 %d", len(cached))
	}

	clothing, err := categoryRepo.GetByRemoteID(ctx, "c-1")
	if err != nil {
		t.Fatalf("读取 c-1 失败: %v", err)
	}
	if !clothing.HasSections() || len(clothing.Sections) != 2 {
		t.Errorf("c-1 应为二级分组形态, 实际 %+v", clothing.Sections)
	}

	accessories, _ := categoryRepo.GetByRemoteID(ctx, "c-2")
	if accessories.HasSections() || len(accessories.SubCategories) != 2 {
		t.Errorf("c-2 应为扁平形态, 实际 %+v", accessories.SubCategories)
	}
}

func TestRefreshCategoriesUpsert(t *testing.T) {
	remote := remoteCategories()
	catalog, categoryRepo := setupCatalog(t, &mockBackend{
		listCategoriesFunc: func(ctx context.Context) ([]backend.Category, error) {
			return remote, nil
		},
	})
	ctx := context.Background()

	catalog.RefreshCategories(ctx)

	// 改名后再同步，应更新而不是新增
	remote[0].Name = "服装鞋帽"
	if err := catalog.RefreshCategories(ctx); err != nil {
		t.Fatalf("二次同步失败: %v", err)
	}

	cached, _ := categoryRepo.List(ctx)
	if len(cached) != 2 {
		t.Errorf("二次同步不应产生重复记录, 实际 %d 条", len(cached))
	}
	renamed, _ := categoryRepo.GetByRemoteID(ctx, "c-1")
	if renamed.Name != "服装鞋帽" {
		t.Errorf("分类名应更新, 实际 %q", renamed.Name)
	}
}

func TestRefreshCategoriesFailure(t *testing.T) {
	catalog, _ := setupCatalog(t, &mockBackend{
		listCategoriesFunc: func(ctx context.Context) ([]backend.Category, error) {
			return nil, errors.New("连接拒绝")
		},
	})

	if err := catalog.RefreshCategories(context.Background()); err == nil {
		t.Fatal("后端失败应报错")
	}
}

// ==================== 级联选项 ====================

func TestCascadeOptions(t *testing.T) {
	catalog, _ := setupCatalog(t, &mockBackend{
		listCategoriesFunc: func(ctx context.Context) ([]backend.Category, error) {
			return remoteCategories(), nil
		},
	})
	ctx := context.Background()

	// 二级分组形态：先取分组标题，再取分组内条目
	sections, err := catalog.SectionOptions(ctx, "c-1")
	if err != nil {
		t.Fatalf("取分组失败: %v", err)
	}
	if len(sections) != 2 || sections[0] != "男装" {
		t.Errorf("分组选项不符: %v", sections)
	}

	items, err := catalog.SubCategoryOptions(ctx, "c-1", "男装")
	if err != nil {
		t.Fatalf("取子分类失败: %v", err)
	}
	if len(items) != 2 || items[0] != "衬衫" {
		t.Errorf("子分类选项不符: %v", items)
	}

	// 扁平形态：分组为空，子分类直接来自平铺列表
	sections, _ = catalog.SectionOptions(ctx, "c-2")
	if len(sections) != 0 {
		t.Errorf("扁平分类不应有分组: %v", sections)
	}
	flat, err := catalog.SubCategoryOptions(ctx, "c-2", "")
	if err != nil {
		t.Fatalf("取扁平子分类失败: %v", err)
	}
	if len(flat) != 2 || flat[0] != "围巾" {
		t.Errorf("扁平子分类不符: %v", flat)
	}
}

func TestValidateSelection(t *testing.T) {
	catalog, _ := setupCatalog(t, &mockBackend{
		listCategoriesFunc: func(ctx context.Context) ([]backend.Category, error) {
			return remoteCategories(), nil
		},
	})
	ctx := context.Background()

	if err := catalog.ValidateSection(ctx, "c-1", "男装"); err != nil {
		t.Errorf("合法分组不应报错: %v", err)
	}
	if err := catalog.ValidateSection(ctx, "c-1", "童装"); err == nil {
		t.Error("不存在的分组应拒绝")
	}
	if err := catalog.ValidateSubCategory(ctx, "c-1", "男装", "衬衫"); err != nil {
		t.Errorf("合法子分类不应报错: %v", err)
	}
	if err := catalog.ValidateSubCategory(ctx, "c-1", "女装", "衬衫"); err == nil {
		t.Error("跨分组的子分类应拒绝")
	}
	if err := catalog.ValidateSubCategory(ctx, "c-2", "", "围巾"); err != nil {
		t.Errorf("扁平形态合法子分类不应报错: %v", err)
	}
	if err := catalog.ValidateSubCategory(ctx, "", "", "围巾"); err == nil {
		t.Error("未选分类时子分类应拒绝")
	}
}
