package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"mall_admin_v1_202609/internal/repository"
)

// ==================== DraftCleanupTask 过期清理任务 ====================

// DraftCleanupTask 清理长时间未操作的草稿
// 编辑器被直接关掉时不会显式取消，靠这里兜底回收
type DraftCleanupTask struct {
	draftRepo repository.DraftRepository
	cron      *cron.Cron

	// 超过这个时长没更新的草稿视为废弃
	staleAfter time.Duration
}

// NewDraftCleanupTask 创建清理任务
func NewDraftCleanupTask(draftRepo repository.DraftRepository) *DraftCleanupTask {
	return &DraftCleanupTask{
		draftRepo:  draftRepo,
		cron:       cron.New(cron.WithSeconds()),
		staleAfter: 24 * time.Hour,
	}
}

// SetStaleAfter 设置过期时长
func (t *DraftCleanupTask) SetStaleAfter(d time.Duration) {
	t.staleAfter = d
}

// Start 启动定时清理任务
func (t *DraftCleanupTask) Start() {
	// 每小时执行一次
	_, err := t.cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[DraftCleanupTask] 无法启动定时任务: %v", err)
	}

	// 启动时立即执行一次
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.execute(ctx)
	}()

	t.cron.Start()
	log.Println("[DraftCleanupTask] 草稿清理任务已启动 (每小时)")
}

// Stop 停止任务
func (t *DraftCleanupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[DraftCleanupTask] 已停止")
}

// execute 执行一次清理
func (t *DraftCleanupTask) execute(ctx context.Context) {
	expireTime := time.Now().Add(-t.staleAfter)

	drafts, err := t.draftRepo.FindStale(ctx, expireTime)
	if err != nil {
		log.Printf("[DraftCleanupTask] 查询失败: %v", err)
		return
	}

	if len(drafts) == 0 {
		return
	}

	log.Printf("[DraftCleanupTask] 发现 %d 个废弃草稿", len(drafts))

	cleaned := 0
	for _, draft := range drafts {
		if err := t.draftRepo.Delete(ctx, draft.ID); err != nil {
			log.Printf("[DraftCleanupTask] 草稿 %d 删除失败: %v", draft.ID, err)
			continue
		}
		cleaned++
	}

	log.Printf("[DraftCleanupTask] 本轮清理完成，共删除 %d 个草稿", cleaned)
}
