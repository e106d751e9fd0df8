package ts

// tabuList — табу-список фиксированной ёмкости.
// Кольцевой буфер хранит порядок добавления, map — срок истечения по ключу.
type tabuList struct {
	m   map[uint64]int
	key []uint64
	exp []int
	i   int
}

func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

// IsTabu сообщает, запрещён ли ход на итерации iter.
func (t *tabuList) IsTabu(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

// Add запрещает ход до итерации expiry (не включая её).
// Вытесняемая из кольца запись удаляется из map, только если её срок не продлевали.
func (t *tabuList) Add(k uint64, expiry int) {
	if oldK := t.key[t.i]; oldK != 0 {
		if cur, ok := t.m[oldK]; ok && cur == t.exp[t.i] {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i = (t.i + 1) % len(t.key)
}
