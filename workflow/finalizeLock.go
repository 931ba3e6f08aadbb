package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireFinalizeLock serializes settlement per reservation across instances
// using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will do the settlement transaction.
func AcquireFinalizeLock(tx *gorm.DB, reservationId int) error {
	lockName := fmt.Sprintf("finalize:%d", reservationId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire finalize lock for reservation_id=%d", reservationId)
	}
	return nil
}

func ReleaseFinalizeLock(tx *gorm.DB, reservationId int) {
	lockName := fmt.Sprintf("finalize:%d", reservationId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
