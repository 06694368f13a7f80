package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// StorageProvider is implemented by each object store backend. Object keys
// double as asset ids for later deletion.
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StoredObject identifies an uploaded file.
type StoredObject struct {
	URL string
	ID  string
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(key), nil
}

// Delete treats a missing file as already deleted.
func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(p.Config.LocalPath, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (p *LocalStorageProvider) GetURL(key string) string {
	return strings.TrimRight(p.Config.PublicBaseURL, "/") + "/uploads/" + key
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, key, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(key string) string {
	if p.Config.PublicBaseURL != "" {
		return strings.TrimRight(p.Config.PublicBaseURL, "/") + "/" + p.Config.MinioBucket + "/" + key
	}
	return "/" + p.Config.MinioBucket + "/" + key
}

type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}

	if err := bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (p *OSSStorageProvider) GetURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, key)
}

// SupabaseStorageProvider stores objects in a public Supabase bucket.
type SupabaseStorageProvider struct {
	Config *config.StorageConfig
	Client *storage_go.Client
}

func NewSupabaseStorageProvider(cfg *config.StorageConfig) (*SupabaseStorageProvider, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, errors.New("supabase url and key are required")
	}
	client := storage_go.NewClient(strings.TrimRight(cfg.SupabaseURL, "/")+"/storage/v1", cfg.SupabaseKey, nil)
	return &SupabaseStorageProvider{Config: cfg, Client: client}, nil
}

func (p *SupabaseStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.UploadFile(p.Config.SupabaseBucket, key, reader, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *SupabaseStorageProvider) Delete(ctx context.Context, key string) error {
	_, err := p.Client.RemoveFile(p.Config.SupabaseBucket, []string{key})
	return err
}

func (p *SupabaseStorageProvider) GetURL(key string) string {
	return p.Client.GetPublicUrl(p.Config.SupabaseBucket, key).SignedURL
}

// StorageService picks a backend from config and falls back to local disk
// when the configured backend cannot be created.
type StorageService struct {
	Provider StorageProvider
	log      *zap.Logger
}

func NewStorageService(cfg *config.Config, log *zap.Logger) *StorageService {
	var provider StorageProvider
	var err error
	switch cfg.Storage.Type {
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(&cfg.Storage)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(&cfg.Storage)
	case util.StorageSupabase:
		provider, err = NewSupabaseStorageProvider(&cfg.Storage)
	}
	if err != nil {
		log.Warn("Storage backend unavailable, using local disk", zap.String("type", cfg.Storage.Type), zap.Error(err))
		provider = nil
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider, log: log}
}

// Store uploads the file under folder with a generated name and returns its
// public URL and asset id.
func (s *StorageService) Store(ctx context.Context, folder string, upload *Upload) (*StoredObject, error) {
	key := path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(upload.Filename)))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	url, err := s.Provider.Upload(ctx, key, upload.Reader, upload.Size, contentType)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Object stored", zap.String("key", key))
	return &StoredObject{URL: url, ID: key}, nil
}

func (s *StorageService) Remove(ctx context.Context, id string) error {
	return s.Provider.Delete(ctx, id)
}
