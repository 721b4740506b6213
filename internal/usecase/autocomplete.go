package usecase

import "strings"

// AutocompleteField — состояние управляемого поля ввода с подсказками.
// Поле только предлагает значения из списка кандидатов и никогда
// не валидирует ввод по нему.
//
// Видимость списка выражена явными переходами состояния вместо таймера
// на blur: Select обрабатывается до скрытия списка, поэтому гонка
// "клик против blur" исключена по построению.
type AutocompleteField struct {
	value      string
	candidates []string
	visible    bool
}

func NewAutocompleteField(candidates []string) *AutocompleteField {
	return &AutocompleteField{candidates: candidates}
}

// Keystroke фиксирует новое значение поля после нажатия клавиши и
// показывает список. Подсказки всегда вычисляются от уже обновленного
// значения, а не от значения на момент показа списка.
func (f *AutocompleteField) Keystroke(value string) {
	f.value = value
	f.visible = true
}

// Focus показывает список подсказок.
func (f *AutocompleteField) Focus() {
	f.visible = true
}

// Blur скрывает список. Вызывается строго после Select,
// если пользователь выбирал подсказку.
func (f *AutocompleteField) Blur() {
	f.visible = false
}

// Select подставляет текст подсказки в поле и скрывает список.
func (f *AutocompleteField) Select(candidate string) {
	f.value = candidate
	f.visible = false
}

// SetCandidates заменяет список кандидатов (после перезагрузки коллекции).
func (f *AutocompleteField) SetCandidates(candidates []string) {
	f.candidates = candidates
}

func (f *AutocompleteField) Value() string {
	return f.value
}

// Suggestions возвращает кандидатов, содержащих текущее значение поля
// без учета регистра. Пустое значение возвращает всех кандидатов.
func (f *AutocompleteField) Suggestions() []string {
	if f.value == "" {
		return append([]string(nil), f.candidates...)
	}

	typed := strings.ToLower(f.value)
	matched := make([]string, 0, len(f.candidates))
	for _, candidate := range f.candidates {
		if strings.Contains(strings.ToLower(candidate), typed) {
			matched = append(matched, candidate)
		}
	}

	return matched
}

// IsOpen сообщает, виден ли список: поле в фокусе и есть что показать.
func (f *AutocompleteField) IsOpen() bool {
	return f.visible && len(f.Suggestions()) > 0
}
