package policy

import (
	"container/list"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

// fifo keeps an insertion-ordered list, earliest inserted at the front.
// Reads do not reorder anything.
type fifo struct {
	order *list.List
	idx   map[string]*list.Element
}

func newFIFO() *fifo {
	return &fifo{order: list.New(), idx: make(map[string]*list.Element)}
}

func (s *fifo) Policy() config.EvictionPolicy { return config.EvictFIFO }

func (s *fifo) Add(e *model.Entry) {
	if _, ok := s.idx[e.Key]; ok {
		return
	}
	s.idx[e.Key] = s.order.PushBack(e.Key)
}

func (s *fifo) Touch(*model.Entry) {}

func (s *fifo) Remove(key string) {
	if el, ok := s.idx[key]; ok {
		s.order.Remove(el)
		delete(s.idx, key)
	}
}

func (s *fifo) Reset() {
	s.order.Init()
	clear(s.idx)
}

func (s *fifo) Victim() (string, bool) {
	el := s.order.Front()
	if el == nil {
		return "", false
	}
	return el.Value.(string), true
}

func (s *fifo) Len() int { return len(s.idx) }
