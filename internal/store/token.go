package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

// tokenKey is the fixed title of the system row holding the bearer credential
const tokenKey = "kiotviet"

// ErrTokenNotFound means the system table has no credential row
var ErrTokenNotFound = errors.New("no kiotviet token row in system table")

// ConfigLookupError reports a failed credential lookup, either because the
// row is missing or the backing store errored.
type ConfigLookupError struct {
	Key string
	Err error
}

func (e *ConfigLookupError) Error() string {
	return fmt.Sprintf("store: config lookup %q: %v", e.Key, e.Err)
}

func (e *ConfigLookupError) Unwrap() error { return e.Err }

// KiotVietToken returns the bearer credential stored under title "kiotviet".
// There is no caching here; orchestrators fetch the token once per run.
func (s *Store) KiotVietToken(ctx context.Context) (string, error) {
	var setting models.SystemSetting
	err := s.db.WithContext(ctx).Where("title = ?", tokenKey).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &ConfigLookupError{Key: tokenKey, Err: ErrTokenNotFound}
	}
	if err != nil {
		return "", &ConfigLookupError{Key: tokenKey, Err: err}
	}
	return setting.Value, nil
}
