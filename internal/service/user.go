package service

import (
	"NetVault/internal/repo"
	"NetVault/model"
	"NetVault/utils"
	"errors"
	"strings"
)

// CreateUser hashes the password, normalizes the email and creates the user.
func CreateUser(user *model.User) error {
	user.Password = utils.GetPwd(user.Password)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := repo.Db.Create(user).Error; err != nil {
		return err
	}
	return nil
}

// FindIdByUsername returns the user ID by username.
func FindIdByUsername(username string) (uint64, error) {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return 0, err
	}
	return user.ID, nil
}

// FindUserNameById returns the username by ID.
func FindUserNameById(userId uint64) (string, error) {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return "", err
	}
	return user.UserName, nil
}

// IsExist checks whether a user exists.
func IsExist(username string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return &model.User{}, err
	}
	return &user, nil
}

// CheckPassword verifies a user's password.
func CheckPassword(username, password string) error {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return err
	}
	if !utils.CheckPwd(password, user.Password) {
		return errors.New("password error")
	}
	return nil
}

// IsEmailExist checks whether an email is already registered.
func IsEmailExist(email string) error {
	var user model.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := repo.Db.Model(&model.User{}).Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	return nil
}
