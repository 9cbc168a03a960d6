package policy

import (
	"container/list"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

// lru keeps a recency-ordered list, least recently touched at the front.
type lru struct {
	order *list.List
	idx   map[string]*list.Element
}

func newLRU() *lru {
	return &lru{order: list.New(), idx: make(map[string]*list.Element)}
}

func (s *lru) Policy() config.EvictionPolicy { return config.EvictLRU }

func (s *lru) Add(e *model.Entry) {
	if el, ok := s.idx[e.Key]; ok {
		s.order.MoveToBack(el)
		return
	}
	s.idx[e.Key] = s.order.PushBack(e.Key)
}

func (s *lru) Touch(e *model.Entry) {
	if el, ok := s.idx[e.Key]; ok {
		s.order.MoveToBack(el)
	}
}

func (s *lru) Remove(key string) {
	if el, ok := s.idx[key]; ok {
		s.order.Remove(el)
		delete(s.idx, key)
	}
}

func (s *lru) Reset() {
	s.order.Init()
	clear(s.idx)
}

func (s *lru) Victim() (string, bool) {
	el := s.order.Front()
	if el == nil {
		return "", false
	}
	return el.Value.(string), true
}

func (s *lru) Len() int { return len(s.idx) }
