package persistent

import (
	"errors"

	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto the application taxonomy. Other
// errors pass through untouched and surface as internal errors upstream.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(resource + " already exists")
	default:
		return err
	}
}

func paginate(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
