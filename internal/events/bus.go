// events — процессная шина широковещательных сигналов аутентификации.
//
// Аналог браузерных CustomEvent `auth:logout` / `auth:token-refreshed`:
// слой токенов публикует сигнал, слой сессии (и любой другой подписчик)
// реагирует, не зная друг о друге.
package events

import "sync"

// Topic — тип широковещательного сигнала.
type Topic string

const (
	// TopicLogout — сессия завершена терминально (refresh невозможен или
	// пользователь вышел); токены уже вычищены публикующей стороной.
	TopicLogout Topic = "auth:logout"
	// TopicTokenRefreshed — координатор получил новую пару токенов.
	TopicTokenRefreshed Topic = "auth:token-refreshed"
)

// Handler — обработчик сигнала. Выполняется синхронно в горутине публикатора.
type Handler func()

// Bus — минимальная pub-sub шина. Отписка не нужна: подписчики живут
// столько же, сколько процесс.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]Handler)}
}

// Subscribe регистрирует обработчик темы.
func (b *Bus) Subscribe(t Topic, h Handler) {
	if h == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[t] = append(b.subs[t], h)
}

// Publish вызывает обработчики темы в порядке подписки.
// Паника одного обработчика не прерывает остальных.
func (b *Bus) Publish(t Topic) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[t]))
	copy(handlers, b.subs[t])
	b.mu.RUnlock()

	for _, h := range handlers {
		safeCall(h)
	}
}

func safeCall(h Handler) {
	defer func() {
		_ = recover()
	}()

	h()
}
