package releasenumberhandler

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"cultivation-backend/db"
	releasenumberstore "cultivation-backend/lib/release-number/store"
)

// Формат номера выпуска: REL-YYMM-NNNN, нумерация помесячная в рамках площадки.
const numberPrefix = "REL"

type Provider interface {
	Next(facilityID string) (releaseNumber string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store: releasenumberstore.NewInstance(db.DB),
		now:   time.Now,
	}
}

type impl struct {
	store releasenumberstore.Provider
	now   func() time.Time
}

func (i impl) Next(facilityID string) (string, error) {
	period := i.now().Format("0601")
	seq, err := i.store.NextSeq(facilityID, period)
	if err != nil {
		return "", errors.Wrap(err, "ошибка резервирования номера выпуска")
	}
	return fmt.Sprintf("%s-%s-%04d", numberPrefix, period, seq), nil
}
