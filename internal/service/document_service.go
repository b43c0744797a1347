package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// DocumentService 附件与签名图存储服务
// 附件对象按 requisitions/YYYY/MM/DD/ 归置，签名图固定在 signatures/<userID><ext>
type DocumentService struct {
	minioClient *minio.Client
	userRepo    *repository.UserRepository
	bucketName  string
	publicURL   string
}

func NewDocumentService(minioClient *minio.Client, userRepo *repository.UserRepository, cfg config.MinIOConfig) *DocumentService {
	return &DocumentService{
		minioClient: minioClient,
		userRepo:    userRepo,
		bucketName:  cfg.Bucket,
		publicURL:   strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// UploadAttachment 上传请购附件，返回对象引用
func (s *DocumentService) UploadAttachment(ctx context.Context, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.DocumentRef, error) {
	objectName := fmt.Sprintf("requisitions/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	if s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return nil, fmt.Errorf("upload file: %w", err)
		}
	}

	return &entity.DocumentRef{
		Name: fileName,
		URL:  s.ObjectURL(objectName),
		Path: objectName,
	}, nil
}

// UploadSignature 上传用户签名图并更新用户记录
// 同一用户重复上传覆盖旧对象
func (s *DocumentService) UploadSignature(ctx context.Context, userID string, reader io.Reader, fileName string, fileSize int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("signatures/%s%s", userID, filepath.Ext(fileName))

	if s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return "", fmt.Errorf("upload signature: %w", err)
		}
	}

	url := s.ObjectURL(objectName)
	if err := s.userRepo.UpdateSignatureURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("update signature url: %w", err)
	}
	return url, nil
}

// DeleteSignature 删除用户签名图并清空用户记录
func (s *DocumentService) DeleteSignature(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.SignatureURL != "" && s.minioClient != nil {
		objectName := s.objectNameFromURL(user.SignatureURL)
		if objectName != "" {
			if err := s.Delete(ctx, objectName); err != nil {
				return fmt.Errorf("remove signature object: %w", err)
			}
		}
	}
	return s.userRepo.UpdateSignatureURL(ctx, userID, "")
}

// Delete 删除存储对象
func (s *DocumentService) Delete(ctx context.Context, objectName string) error {
	if s.minioClient == nil {
		return nil
	}
	return s.minioClient.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
}

// Download 下载存储对象
func (s *DocumentService) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if s.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}
	object, err := s.minioClient.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return object, nil
}

// ObjectURL 对象的公开访问URL
func (s *DocumentService) ObjectURL(objectName string) string {
	if s.publicURL == "" {
		return fmt.Sprintf("/%s/%s", s.bucketName, objectName)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucketName, objectName)
}

func (s *DocumentService) objectNameFromURL(url string) string {
	marker := "/" + s.bucketName + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
