package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/sirupsen/logrus"
)

// BlobStorage stores entries as blobs in one Azure Blob Storage
// container. Blob names are the unpadded URL-safe Base64 rendering of the
// entry name; blobs that do not decode are foreign and skipped by List.
//
// Azure blob uploads are atomic at the blob level (the new content
// becomes visible only once the upload commits), which satisfies the
// protocol's create-or-replace contract.
type BlobStorage struct {
	client    *azblob.Client
	container string
	ctx       context.Context
}

// NewBlobStorage connects to an Azure storage account with a shared key
// and binds to the given container. The container must already exist.
func NewBlobStorage(ctx context.Context, account, key, container string) (*BlobStorage, error) {
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credentials: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "NewBlobStorage",
		"account":   account,
		"container": container,
	}).Info("Connected to Azure blob storage")

	return &BlobStorage{client: client, container: container, ctx: ctx}, nil
}

// blobName renders an entry name as a printable blob name.
func blobName(name []byte) string {
	return base64.RawURLEncoding.EncodeToString(name)
}

// List enumerates all entries in the container.
func (b *BlobStorage) List() ([][]byte, error) {
	var names [][]byte

	pager := b.client.NewListBlobsFlatPager(b.container, nil)
	for pager.More() {
		page, err := pager.NextPage(b.ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list container: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			name, err := base64.RawURLEncoding.DecodeString(*item.Name)
			if err != nil {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}

// Read downloads an entry, or returns ErrEntryNotFound.
func (b *BlobStorage) Read(name []byte) ([]byte, error) {
	resp, err := b.client.DownloadStream(b.ctx, b.container, blobName(name), nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download entry: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download entry: %w", err)
	}
	return data, nil
}

// Write uploads an entry, replacing any previous content.
func (b *BlobStorage) Write(name, data []byte) error {
	if len(name) > MaxNameSize {
		return ErrNameTooLong
	}

	if _, err := b.client.UploadBuffer(b.ctx, b.container, blobName(name), data, nil); err != nil {
		return fmt.Errorf("failed to upload entry: %w", err)
	}
	return nil
}

// Delete removes an entry; absence is not an error.
func (b *BlobStorage) Delete(name []byte) error {
	_, err := b.client.DeleteBlob(b.ctx, b.container, blobName(name), nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
