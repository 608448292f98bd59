package sessions

import "sync"

// keyedMutex сериализует операции над одной сессией
// Операции над разными сессиями выполняются параллельно
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock захватывает блокировку ключа и возвращает функцию освобождения
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// inflightSet хранит id сессий, для которых идет вызов создания записи
type inflightSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newInflightSet() *inflightSet {
	return &inflightSet{ids: make(map[string]struct{})}
}

func (f *inflightSet) add(id string) {
	f.mu.Lock()
	f.ids[id] = struct{}{}
	f.mu.Unlock()
}

func (f *inflightSet) remove(id string) {
	f.mu.Lock()
	delete(f.ids, id)
	f.mu.Unlock()
}

func (f *inflightSet) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[id]
	return ok
}
