package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"mall_admin_v1_202609/internal/controller"
	"mall_admin_v1_202609/internal/model"
	"mall_admin_v1_202609/internal/repository"
	"mall_admin_v1_202609/internal/router"
	"mall_admin_v1_202609/internal/service"
	"mall_admin_v1_202609/internal/task"
	"mall_admin_v1_202609/pkg/backend"
	"mall_admin_v1_202609/pkg/database"
)

func main() {
	// 0. 加载环境变量（没有 .env 文件时静默跳过）
	_ = godotenv.Load()

	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	tasks := initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers.Draft, deps.Controllers.Product, deps.Controllers.Category)

	// 5. 启动服务
	startServer(r, tasks)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Backend     *backend.Client
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Draft    repository.DraftRepository
	Category repository.CategoryRepository
}

// Services 服务集合
type Services struct {
	Catalog *service.CatalogService
	Editor  *service.EditorService
	Upload  *service.UploadService
}

// Controllers 控制器集合
type Controllers struct {
	Draft    *controller.DraftController
	Product  *controller.ProductController
	Category *controller.CategoryController
}

// Tasks 定时任务集合
type Tasks struct {
	DraftCleanup *task.DraftCleanupTask
	CategorySync *task.CategorySyncTask
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=mall_admin port=5432 sslmode=disable TimeZone=Asia/Shanghai")

	return database.InitDB(dsn,
		// Draft
		&model.ProductDraft{},
		// Category
		&model.Category{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Draft:    repository.NewDraftRepository(db),
		Category: repository.NewCategoryRepository(db),
	}

	// -------- 后端客户端 --------
	client := backend.NewClient(&backend.Config{
		BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3000/api"),
	})

	// -------- 业务服务 --------
	catalogSvc := service.NewCatalogService(repos.Category, client)
	editorSvc := service.NewEditorService(repos.Draft, catalogSvc, client)
	uploadSvc := service.NewUploadService(editorSvc, client)

	services := &Services{
		Catalog: catalogSvc,
		Editor:  editorSvc,
		Upload:  uploadSvc,
	}

	// -------- Controller 层 --------
	controllers := &Controllers{
		Draft:    controller.NewDraftController(editorSvc, uploadSvc),
		Product:  controller.NewProductController(catalogSvc),
		Category: controller.NewCategoryController(catalogSvc),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Backend:     client,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) *Tasks {
	// 废弃草稿清理
	cleanupTask := task.NewDraftCleanupTask(deps.Repos.Draft)
	cleanupTask.Start()

	// 分类同步
	syncTask := task.NewCategorySyncTask(deps.Services.Catalog)
	syncTask.Start()

	log.Println("定时任务已启动")

	return &Tasks{
		DraftCleanup: cleanupTask,
		CategorySync: syncTask,
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, tasks *Tasks) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	tasks.DraftCleanup.Stop()
	tasks.CategorySync.Stop()

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
