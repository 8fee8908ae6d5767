package notifyhandler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"cultivation-backend/config"
	"cultivation-backend/db"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	"cultivation-backend/lib/smtp"
	"cultivation-backend/models"
)

// Диспетчер уведомлений процесса выпуска. Контракт best effort: сбой доставки
// никогда не прерывает операцию процесса, поэтому методы ничего не возвращают.
type Provider interface {
	SendReleaseEvent(facilityID string, code models.NotifyEventCode, releaseNumber string, roles []models.UserRole)
	SendUserEvent(userID string, code models.NotifyEventCode, releaseNumber string)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		userStore: facilityusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	userStore facilityusersstore.Provider
}

var eventSubject = map[models.NotifyEventCode]string{
	models.NotifyReleaseInitiated:    "Создан выпуск партии",
	models.NotifyCheckpointCompleted: "Заполнена контрольная точка",
	models.NotifyReleaseOnHold:       "Выпуск приостановлен: контрольная точка не пройдена",
	models.NotifyApprovalRequired:    "Требуется согласование выпуска",
	models.NotifyApprovalDecision:    "Получено решение по согласованию выпуска",
	models.NotifyReleaseReleased:     "Партия выпущена в оборот",
	models.NotifyReleaseRejected:     "Выпуск отклонен",
}

func (i impl) getLogger(code models.NotifyEventCode, releaseNumber string) *log.Entry {
	return log.
		WithField("event_code", code).
		WithField("release_number", releaseNumber)
}

func (i impl) SendReleaseEvent(facilityID string, code models.NotifyEventCode, releaseNumber string, roles []models.UserRole) {
	logger := i.getLogger(code, releaseNumber).WithField("facility_id", facilityID)
	for _, role := range roles {
		users, err := i.userStore.GetListByRole(facilityID, role)
		if err != nil {
			logger.WithError(err).Error("ошибка получения получателей уведомления")
			continue
		}
		for _, user := range users {
			i.deliver(user.Email, user.NotifyEmail, code, releaseNumber, logger)
		}
	}
}

func (i impl) SendUserEvent(userID string, code models.NotifyEventCode, releaseNumber string) {
	logger := i.getLogger(code, releaseNumber).WithField("user_id", userID)
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return
	}
	if user == nil {
		logger.Error("пользователь не найден")
		return
	}
	i.deliver(user.Email, user.NotifyEmail, code, releaseNumber, logger)
}

func (i impl) deliver(email string, emailEnabled bool, code models.NotifyEventCode, releaseNumber string, logger *log.Entry) {
	subject, ok := eventSubject[code]
	if !ok {
		subject = string(code)
	}
	logger.WithField("email", email).Info("уведомление процесса выпуска")
	if !emailEnabled {
		return
	}
	message := fmt.Sprintf("%s. Номер выпуска: %s", subject, releaseNumber)
	err := smtp.Instance.SendEMail(config.Conf.Smtp.Sender, email, message, subject)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления на почту")
	}
}
