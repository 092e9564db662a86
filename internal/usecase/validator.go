package usecase

import (
	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"
)

// NewValidator returns a validator that knows the domain enum tags used by
// the input structs of this package.
func NewValidator() (*validation.Validator, error) {
	v := validation.New()
	enums := map[string][]string{
		"subject":    entity.Subjects,
		"grade":      entity.Grades,
		"posttype":   entity.PostTypes,
		"difficulty": entity.Difficulties,
		"role":       {string(entity.RoleUser), string(entity.RoleAdmin)},
		"uploadkind": {string(entity.UploadKindNote), string(entity.UploadKindAvatar)},
	}
	for tag, values := range enums {
		if err := v.RegisterEnum(tag, values...); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Requester is the authenticated caller of an operation that checks
// ownership.
type Requester struct {
	UserID string
	Role   entity.UserRole
}

func (r Requester) IsAdmin() bool {
	return r.Role == entity.RoleAdmin
}

// CanModify reports whether the requester may change a record owned by
// ownerID.
func (r Requester) CanModify(ownerID string) bool {
	return r.IsAdmin() || (r.UserID != "" && r.UserID == ownerID)
}
