package domain

// RequestScope - контекст одного запроса: набор элементов текущей страницы
// и единственный слот "активного" элемента, от которого зависит вычисление
// краткого описания. Слот меняется только через Activate/WithActive.
type RequestScope struct {
	items  []*ContentItem
	active *ContentItem
}

func NewRequestScope(items []*ContentItem, active *ContentItem) *RequestScope {
	return &RequestScope{items: items, active: active}
}

// Items - элементы текущей страницы (режим show=current)
func (s *RequestScope) Items() []*ContentItem {
	return s.items
}

// Active - текущий активный элемент, может быть nil
func (s *RequestScope) Active() *ContentItem {
	return s.active
}

// Activate делает item активным и возвращает функцию, восстанавливающую
// предыдущее значение. Вызывать через defer.
func (s *RequestScope) Activate(item *ContentItem) (restore func()) {
	prev := s.active
	s.active = item
	return func() {
		s.active = prev
	}
}

// WithActive выполняет fn с item в качестве активного элемента и
// восстанавливает прежний на любом выходе, включая панику.
func (s *RequestScope) WithActive(item *ContentItem, fn func() error) error {
	restore := s.Activate(item)
	defer restore()
	return fn()
}
