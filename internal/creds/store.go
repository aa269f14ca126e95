// creds хранит пару bearer-токенов текущей сессии.
//
// Хранилище — единственный разделяемый изменяемый ресурс между интерсептором,
// координатором refresh и гейтом маршрутов. Писать в него могут только
// координатор refresh и явные действия login/register/logout; прочие
// компоненты читают.
package creds

import "sync"

// Pair — пара непрозрачных токенов. Пустая строка означает отсутствие токена.
type Pair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Empty — в хранилище нет ни одного токена.
func (p Pair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// Store — контракт хранилища токенов. Чтение синхронное: гейт принимает
// решение о маршруте без сетевых вызовов.
type Store interface {
	// Pair возвращает текущую пару токенов.
	Pair() Pair
	// SetPair сохраняет новую пару. Пустой Refresh сохраняет прежний
	// refresh-токен (сервер не обязан ротировать его при обмене).
	SetPair(p Pair) error
	// Clear удаляет оба токена.
	Clear() error
}

// MemoryStore — хранилище в памяти; используется в тестах и как дефолт,
// когда персистентность не нужна.
type MemoryStore struct {
	mu   sync.RWMutex
	pair Pair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Pair() Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pair
}

func (s *MemoryStore) SetPair(p Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Refresh == "" {
		p.Refresh = s.pair.Refresh
	}
	s.pair = p

	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{}

	return nil
}
