package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(&Config{BaseURL: server.URL, RetryCount: 1})
	return client, server
}

func TestListProducts(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" || r.Method != http.MethodGet {
			t.Errorf("意外请求: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Product{
			{ID: "p-1", Name: "围巾", Price: 49.9, Category: &ProductCategory{ID: "c-1", Name: "配饰"}},
			{ID: "p-2", Name: "手套"},
		})
	}))
	defer server.Close()

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("应返回 2 条商品, 实际 %d", len(products))
	}
	if products[0].ID != "p-1" || products[0].Category.Name != "配饰" {
		t.Errorf("字段映射不符: %+v", products[0])
	}
	// category 可能为 null
	if products[1].Category != nil {
		t.Error("缺失分类应为 nil")
	}
}

func TestListSellerProducts(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/seller/my-products" {
			t.Errorf("意外路径: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Product{{ID: "p-1"}})
	}))
	defer server.Close()

	products, err := client.ListSellerProducts(context.Background())
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("应返回 1 条, 实际 %d", len(products))
	}
}

func TestCreateProduct(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products" {
			t.Errorf("意外请求: %s %s", r.Method, r.URL.Path)
		}

		var payload ProductPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Name != "帆布包" || payload.Price != 12.5 {
			t.Errorf("负载不符: %+v", payload)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Product{ID: "p-new", Name: payload.Name})
	}))
	defer server.Close()

	created, err := client.CreateProduct(context.Background(), ProductPayload{
		Name:          "帆布包",
		Price:         12.5,
		Category:      "c-1",
		ColorVariants: json.RawMessage("[]"),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if created.ID != "p-new" {
		t.Errorf("应返回创建后的商品, 实际 %+v", created)
	}
}

func TestUpdateProduct(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/products/p-9" {
			t.Errorf("意外请求: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Product{ID: "p-9", Name: "新名字"})
	}))
	defer server.Close()

	updated, err := client.UpdateProduct(context.Background(), "p-9", ProductPayload{Name: "新名字"})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Name != "新名字" {
		t.Errorf("更新结果不符: %+v", updated)
	}
}

func TestDeleteProduct(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/products/p-1" {
			t.Errorf("意外请求: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := client.DeleteProduct(context.Background(), "p-1"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
}

func TestApiError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer server.Close()

	_, err := client.ListProducts(context.Background())
	if err == nil {
		t.Fatal("非 2xx 应报错")
	}
}

func TestListCategories(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories" {
			t.Errorf("意外路径: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Category{
			{
				ID:                "c-1",
				Name:              "服饰",
				MainSubcategories: []CategorySection{{Title: "男装", Items: []string{"衬衫"}}},
			},
			{
				ID:            "c-2",
				Name:          "配饰",
				SubCategories: []SubCategory{{Name: "围巾"}},
			},
		})
	}))
	defer server.Close()

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("应返回 2 个分类, 实际 %d", len(categories))
	}
	if categories[0].MainSubcategories[0].Title != "男装" {
		t.Errorf("二级分组解析不符: %+v", categories[0])
	}
	if categories[1].SubCategories[0].Name != "围巾" {
		t.Errorf("扁平子分类解析不符: %+v", categories[1])
	}
}

func TestUploadImage(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/uploads/image" {
			t.Errorf("意外请求: %s %s", r.Method, r.URL.Path)
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("缺少 image 字段: %v", err)
		}
		defer file.Close()
		if header.Filename != "a.jpg" {
			t.Errorf("文件名应为 a.jpg, 实际 %s", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(UploadResult{URL: "https://cdn.example.com/a.jpg"})
	}))
	defer server.Close()

	url, err := client.UploadImage(context.Background(), "a.jpg", []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if url != "https://cdn.example.com/a.jpg" {
		t.Errorf("应返回托管 URL, 实际 %s", url)
	}
}

func TestUploadImageMissingURL(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := client.UploadImage(context.Background(), "a.jpg", []byte{0x01}); err == nil {
		t.Fatal("响应缺少 url 应报错")
	}
}
