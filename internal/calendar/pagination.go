package calendar

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items      []T // элементы на текущей странице
	Page       int // номер страницы (с 1)
	PageSize   int // количество элементов на странице
	TotalPages int
	HasNext    bool
	HasPrev    bool
	Total      int // общее количество элементов
}

const DefaultPageSize = 10

// NormalizePage подставляет дефолты для некорректных page/pageSize
// и возвращает смещение первого элемента.
func NormalizePage(page, pageSize int) (int, int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize, (page - 1) * pageSize
}

// Paginate возвращает срез items для указанной страницы и метаданные.
// page нумеруется с 1. При некорректных значениях используются дефолты.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)
	page, pageSize, start := NormalizePage(page, pageSize)

	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return PageOf(items[start:end], total, page, pageSize)
}

// PageOf собирает страницу, когда items уже вырезаны на стороне хранилища.
func PageOf[T any](items []T, total, page, pageSize int) Page[T] {
	page, pageSize, start := NormalizePage(page, pageSize)
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		HasNext:    start+len(items) < total,
		HasPrev:    page > 1,
		Total:      total,
	}
}
