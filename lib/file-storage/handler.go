package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"cultivation-backend/config"
	"cultivation-backend/db"
	releasedocstore "cultivation-backend/lib/file-storage/storage"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	UploadDocument(ctx context.Context, facilityID, releaseID, userID, name string,
		docType dbmodels.DocumentType, contentType string, fileReader io.Reader, fileSize int64) (id string, err error)
	GetDocument(ctx context.Context, facilityID, releaseID, documentID string) (data []byte, view releaseapimodels.DocumentView, err error)
	ListByRelease(facilityID, releaseID string) (list []releaseapimodels.DocumentView, err error)
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
		store:    releasedocstore.NewInstance(db.DB),
	}
}

type impl struct {
	s3client *minio.Client
	store    releasedocstore.Provider
}

func (i impl) objectName(facilityID, releaseID, objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", facilityID, releaseID, objectKey)
}

func (i impl) UploadDocument(ctx context.Context, facilityID, releaseID, userID, name string,
	docType dbmodels.DocumentType, contentType string, fileReader io.Reader, fileSize int64) (string, error) {
	if name == "" {
		return "", errors.Wrap(models.ErrValidation, "не указано имя документа")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := uuid.NewString()
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.Bucket,
		i.objectName(facilityID, releaseID, objectKey), fileReader, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения документа в хранилище")
	}
	rec := dbmodels.ReleaseDocument{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			FacilityID: facilityID,
		},
		ReleaseID:   releaseID,
		Name:        name,
		DocType:     docType,
		ContentType: contentType,
		ObjectKey:   objectKey,
		UploadedBy:  userID,
	}
	id, err := i.store.Save(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения записи документа")
	}
	return id, nil
}

func (i impl) GetDocument(ctx context.Context, facilityID, releaseID, documentID string) ([]byte, releaseapimodels.DocumentView, error) {
	view := releaseapimodels.DocumentView{}
	rec, err := i.store.GetByID(facilityID, documentID)
	if err != nil {
		return nil, view, errors.Wrap(err, "ошибка получения записи документа")
	}
	if rec == nil || rec.ReleaseID != releaseID {
		return nil, view, errors.Wrap(models.ErrNotFound, "документ не найден")
	}
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.Bucket,
		i.objectName(facilityID, releaseID, rec.ObjectKey), minio.GetObjectOptions{})
	if err != nil {
		return nil, view, errors.Wrap(err, "ошибка чтения документа из хранилища")
	}
	defer object.Close()
	buf := bytes.Buffer{}
	if _, err = io.Copy(&buf, object); err != nil {
		return nil, view, errors.Wrap(err, "ошибка чтения документа из хранилища")
	}
	return buf.Bytes(), releaseapimodels.DocumentConvert(*rec), nil
}

func (i impl) ListByRelease(facilityID, releaseID string) ([]releaseapimodels.DocumentView, error) {
	recs, err := i.store.ListByRelease(facilityID, releaseID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документов выпуска")
	}
	list := make([]releaseapimodels.DocumentView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, releaseapimodels.DocumentConvert(rec))
	}
	return list, nil
}
