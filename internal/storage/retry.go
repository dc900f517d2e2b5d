package storage

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxAttempts - предельное число попыток для транзиентных ошибок базы.
const maxAttempts = 3

// retryDelay - базовая пауза между попытками.
const retryDelay = 100 * time.Millisecond

// IsTransient определяет, является ли ошибка переходящим конфликтом
// prepared statement (возникает при работе через connection pooler).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "prepared statement")
}

// Retryable помечает ошибку как подлежащую повтору в WithTransientRetry
// независимо от её текста. Используется вызывающей стороной для собственных
// повторяемых конфликтов, например гонки за номер заказа.
func Retryable(err error) error {
	return retry.RetryableError(err)
}

// WithTransientRetry выполняет операцию, повторяя её при транзиентных ошибках
// prepared statement и при ошибках, помеченных Retryable: до трёх попыток
// с линейно растущей паузой. После исчерпания попыток возвращается
// последняя ошибка.
func WithTransientRetry(ctx context.Context, op func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return retryDelay * time.Duration(attempt), false
	}))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if IsTransient(err) {
			log.Printf("storage: transient error, retrying: %v", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
