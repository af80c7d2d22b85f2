package users

import "errors"

var ErrInvalidCredentials = errors.New("invalid username or password")

// User — учётная запись из конфига. Password — либо bcrypt-хэш ($2…), либо открытый текст.
type User struct {
	Username    string `mapstructure:"username" validate:"required"`
	Password    string `mapstructure:"password" validate:"required"`
	DisplayName string `mapstructure:"display_name"`
}

// DefaultUsers — демо-учётки, если в конфиге пользователей нет.
func DefaultUsers() []User {
	return []User{
		{Username: "snackhoarder", Password: "password", DisplayName: "Maria"},
		{Username: "canofbeans", Password: "password", DisplayName: "Juan"},
		{Username: "hungryhippo", Password: "password", DisplayName: "Hari"},
	}
}
