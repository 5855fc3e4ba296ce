package service

import (
	"context"
	"fmt"

	"mall_admin_v1_202609/internal/model"
)

// ==================== 服务实现 ====================

// UploadService 变体图片上传服务
// 把文件传给后端换取 URL，再把 URL 挂到草稿变体上。
// 上传前先做数量预检，满 5 张时不发网络请求直接拒绝。
type UploadService struct {
	editor *EditorService
	client BackendClient
}

// NewUploadService 创建上传服务
func NewUploadService(editor *EditorService, client BackendClient) *UploadService {
	return &UploadService{
		editor: editor,
		client: client,
	}
}

// UploadVariantImage 上传图片并挂载到指定变体
// 任一步失败草稿不变：预检失败不上传，上传失败不挂载
func (s *UploadService) UploadVariantImage(ctx context.Context, draftID int64, variantID, filename string, data []byte) (*model.ProductDraft, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("图片内容为空")
	}

	if err := s.editor.CanAttachImage(ctx, draftID, variantID); err != nil {
		return nil, err
	}

	url, err := s.client.UploadImage(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("上传图片失败: %v", err)
	}

	return s.editor.AttachImage(ctx, draftID, variantID, url)
}
