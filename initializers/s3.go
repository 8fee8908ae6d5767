package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	filestorage "cultivation-backend/lib/file-storage"
	s3client "cultivation-backend/s3"
)

func InitS3(ctx context.Context) {
	client, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}
	err = client.MakeBucket(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка создания бакета для документов выпуска")
		return
	}
	filestorage.NewInstance(client.Minio())
	log.Info("S3 клиент успешно инициализирован")
}
