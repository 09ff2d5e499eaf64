package service

import (
	"github.com/onkonavigator/onkonav/database"
	"github.com/onkonavigator/onkonav/database/model"
	"github.com/onkonavigator/onkonav/util/crypto"
	"github.com/onkonavigator/onkonav/web/entity"

	"github.com/google/uuid"
)

// AdminUserService provisions and inspects admin accounts. Passwords never
// leave this layer in any form other than a bcrypt hash.
type AdminUserService struct{}

// ListAdmins returns the safe projection of every admin account.
func (s *AdminUserService) ListAdmins() ([]entity.AdminInfo, error) {
	db := database.GetDB()

	var admins []model.AdminUser
	err := db.Model(model.AdminUser{}).
		Order("created_at ASC").
		Find(&admins).
		Error
	if err != nil {
		return nil, err
	}

	infos := make([]entity.AdminInfo, 0, len(admins))
	for _, admin := range admins {
		infos = append(infos, entity.AdminInfo{
			Id:        admin.Id,
			Email:     admin.Email,
			CreatedAt: admin.CreatedAt,
		})
	}
	return infos, nil
}

// CreateOrRotate creates the admin account for email, or rotates its
// password hash when the account already exists. The second return value
// reports whether a new account was created.
func (s *AdminUserService) CreateOrRotate(email string, password string) (*model.AdminUser, bool, error) {
	db := database.GetDB()

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, false, err
	}

	existing := &model.AdminUser{}
	err = db.Model(model.AdminUser{}).
		Where("email = ?", email).
		First(existing).
		Error
	if err == nil {
		err = db.Model(model.AdminUser{}).
			Where("id = ?", existing.Id).
			Update("password_hash", hash).
			Error
		if err != nil {
			return nil, false, err
		}
		existing.PasswordHash = hash
		return existing, false, nil
	}
	if !database.IsNotFound(err) {
		return nil, false, err
	}

	admin := &model.AdminUser{
		Id:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
