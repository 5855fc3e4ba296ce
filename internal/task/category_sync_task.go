package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"mall_admin_v1_202609/internal/service"
)

// ==================== CategorySyncTask 分类同步任务 ====================

// CategorySyncTask 定时从商城后端同步分类
// 分类变动不频繁，本地缓存表保证后端抖动时级联下拉仍然可用
type CategorySyncTask struct {
	catalogService *service.CatalogService
	cron           *cron.Cron
}

// NewCategorySyncTask 创建分类同步任务
func NewCategorySyncTask(catalogService *service.CatalogService) *CategorySyncTask {
	return &CategorySyncTask{
		catalogService: catalogService,
		cron:           cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时同步任务
func (t *CategorySyncTask) Start() {
	// 每 10 分钟执行一次
	_, err := t.cron.AddFunc("0 */10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[CategorySyncTask] 无法启动定时任务: %v", err)
	}

	// 启动时立即同步一次，保证冷启动就有分类可选
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		t.execute(ctx)
	}()

	t.cron.Start()
	log.Println("[CategorySyncTask] 分类同步任务已启动 (每10分钟)")
}

// Stop 停止任务
func (t *CategorySyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[CategorySyncTask] 已停止")
}

// execute 执行一次同步
func (t *CategorySyncTask) execute(ctx context.Context) {
	if err := t.catalogService.RefreshCategories(ctx); err != nil {
		log.Printf("[CategorySyncTask] 同步失败: %v", err)
	}
}
