package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized - сессии нет, она истекла или сервер ответил 401
	ErrUnauthorized = errors.New("сессия не активна, выполните вход")
	// ErrRemote - сервер отклонил запрос, подробности в *RemoteError
	ErrRemote = errors.New("сервер отклонил запрос")
	// ErrTransport - запрос не дошел до сервера или ответ не получен
	ErrTransport      = errors.New("сервер недоступен")
	// ErrRefresh - изменение принято сервером, но список после него перечитать не удалось.
	// Повторять изменение нельзя, достаточно обновить список.
	ErrRefresh        = errors.New("refresh")
	ErrNoToken        = errors.New("токен не найден")
	ErrNoActiveBuffer = errors.New("нет редактируемой записи")
)

// RemoteError - ответ сервера со статусом 4xx/5xx
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ошибка сервера: статус %d", e.StatusCode)
	}
	return fmt.Sprintf("ошибка сервера (%d): %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
