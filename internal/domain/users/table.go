package users

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Table struct {
	byName map[string]User
}

// NewTable строит таблицу; при пустом списке берутся DefaultUsers. Повторы: выигрывает первый.
func NewTable(list []User) *Table {
	if len(list) == 0 {
		list = DefaultUsers()
	}
	t := &Table{byName: make(map[string]User, len(list))}
	for _, u := range list {
		if _, dup := t.byName[u.Username]; dup {
			continue
		}
		t.byName[u.Username] = u
	}
	return t
}

func (t *Table) Authenticate(username, password string) (User, error) {
	u, ok := t.byName[username]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if strings.HasPrefix(u.Password, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// DisplayName — имя для приветствий и подсказок; без имени — сам логин.
func (t *Table) DisplayName(username string) string {
	if u, ok := t.byName[username]; ok && u.DisplayName != "" {
		return u.DisplayName
	}
	return username
}

func (t *Table) Exists(username string) bool {
	_, ok := t.byName[username]
	return ok
}
