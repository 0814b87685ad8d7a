// Package upload stores files uploaded with multipart requests and serves them back.
package upload

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/storage"
)

// Namespace groups uploaded files. It is the first segment of the URL a file is served under.
type Namespace string

const (
	NamespaceProfile  Namespace = "uploads"
	NamespaceEvent    Namespace = "uploads-event"
	NamespaceResponse Namespace = "uploads-responses"
)

var Namespaces = []Namespace{NamespaceProfile, NamespaceEvent, NamespaceResponse}

func NewService(store storage.FileStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

type Service struct {
	store storage.FileStore
	now   func() time.Time

	mu   sync.Mutex
	last time.Time
}

// timestamp returns the current time but at least one millisecond after the previously returned
// one so files uploaded within the same millisecond still get unique names.
func (s *Service) timestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Truncate(time.Millisecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Millisecond)
	}
	s.last = now
	return now
}

// Upload stores the file uploaded as part field and returns it as an attachment addressable by its
// URL.
func (s *Service) Upload(ctx context.Context, namespace Namespace, field string, file *multipart.FileHeader) (model.Attachment, error) {
	if file == nil {
		return model.Attachment{}, errdef.NewBadRequest("no file uploaded as %q", field)
	}

	name := storage.ObjectName(s.timestamp(), field, file.Filename)
	key := fmt.Sprintf("%s/%s", namespace, name)

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	f, err := file.Open()
	if err != nil {
		return model.Attachment{}, fmt.Errorf("failed to open uploaded file %q: %v", file.Filename, err)
	}
	defer f.Close()

	err = s.store.Put(ctx, key, mimeType, f, file.Size)
	if err != nil {
		return model.Attachment{}, err
	}

	return model.Attachment{
		URL:          "/" + key,
		OriginalName: file.Filename,
		MimeType:     mimeType,
	}, nil
}

// UploadAll stores every file in upload order.
func (s *Service) UploadAll(ctx context.Context, namespace Namespace, field string, files []*multipart.FileHeader) (model.Attachments, error) {
	attachments := make(model.Attachments, 0, len(files))
	for _, file := range files {
		attachment, err := s.Upload(ctx, namespace, field, file)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

// Open returns the stored file. Callers must close the body of the returned object.
func (s *Service) Open(ctx context.Context, namespace Namespace, name string) (*storage.Object, error) {
	return s.store.Get(ctx, fmt.Sprintf("%s/%s", namespace, name))
}
