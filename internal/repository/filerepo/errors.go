package filerepo

import (
	"fmt"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/pkg/errors"
)

var ErrStoreClosed = errors.New("[repository/filerepo] store closed")

func notFound(format string, args ...any) error {
	return fmt.Errorf("[repository/%s] %w", fmt.Sprintf(format, args...), domain.ErrRecordNotFound)
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("[repository/%s] %w", fmt.Sprintf(format, args...), domain.ErrDuplicateKey)
}
