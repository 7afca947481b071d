package minio

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/errors"
)

var ErrClientClosed = errors.New(errors.ErrCodeInternal, "minio client is closed")

// ArchiveResult describes a stored opinion object.
type ArchiveResult struct {
	ObjectKey  string
	ETag       string
	Size       int64
	ArchivedAt time.Time
}

// OpinionArchive stores the raw opinion text for every extracted case, so
// the original document can be re-examined or re-extracted later.
type OpinionArchive struct {
	client *Client
	logger logging.Logger
}

// NewOpinionArchive builds an archive over the given client.
func NewOpinionArchive(client *Client, log logging.Logger) *OpinionArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &OpinionArchive{client: client, logger: log.Named("archive")}
}

// ObjectKey returns the storage key for a case's opinion text.
func ObjectKey(caseID string) string {
	return path.Join("opinions", caseID+".txt")
}

// Store uploads an opinion text under the case's key. Metadata carries the
// citation so objects are identifiable without the database.
func (a *OpinionArchive) Store(ctx context.Context, caseID, citation, text string) (*ArchiveResult, error) {
	if a.client.IsClosed() {
		return nil, ErrClientClosed
	}
	if caseID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "case id required")
	}
	if text == "" {
		return nil, errors.New(errors.ErrCodeValidation, "opinion text required")
	}

	key := ObjectKey(caseID)
	meta := map[string]string{}
	if citation != "" {
		meta["citation"] = citation
	}

	info, err := a.client.API().PutObject(ctx, a.client.Bucket(), key,
		strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{
			ContentType:  "text/plain; charset=utf-8",
			UserMetadata: meta,
		})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCaseArchiveFailed, "failed to archive opinion")
	}

	a.logger.Debug("opinion archived",
		logging.String("case_id", caseID),
		logging.Int64("bytes", info.Size))

	return &ArchiveResult{
		ObjectKey:  key,
		ETag:       info.ETag,
		Size:       info.Size,
		ArchivedAt: time.Now().UTC(),
	}, nil
}

// Fetch retrieves the archived opinion text for a case.
func (a *OpinionArchive) Fetch(ctx context.Context, caseID string) (string, error) {
	if a.client.IsClosed() {
		return "", ErrClientClosed
	}

	key := ObjectKey(caseID)
	obj, err := a.client.API().GetObject(ctx, a.client.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeCaseArchiveFailed, "failed to fetch archived opinion")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", errors.New(errors.ErrCodeCaseNotFound, "archived opinion not found").WithDetail(caseID)
		}
		return "", errors.Wrap(err, errors.ErrCodeCaseArchiveFailed, "failed to read archived opinion")
	}
	return string(data), nil
}

// Exists reports whether an opinion is archived for the case.
func (a *OpinionArchive) Exists(ctx context.Context, caseID string) (bool, error) {
	if a.client.IsClosed() {
		return false, ErrClientClosed
	}

	_, err := a.client.API().StatObject(ctx, a.client.Bucket(), ObjectKey(caseID), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeCaseArchiveFailed, "failed to stat archived opinion")
	}
	return true, nil
}

// Delete removes the archived opinion for a case.
func (a *OpinionArchive) Delete(ctx context.Context, caseID string) error {
	if a.client.IsClosed() {
		return ErrClientClosed
	}

	err := a.client.API().RemoveObject(ctx, a.client.Bucket(), ObjectKey(caseID), minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCaseArchiveFailed, "failed to delete archived opinion")
	}

	a.logger.Debug("archived opinion deleted", logging.String("case_id", caseID))
	return nil
}
