package infrastructure

// AutoConfirmer подтверждает любой запрос. Используется в HTTP-приложении,
// где подтверждение удаления выполняется на стороне клиента.
type AutoConfirmer struct{}

func NewAutoConfirmer() *AutoConfirmer {
	return &AutoConfirmer{}
}

func (c *AutoConfirmer) Confirm(prompt string) bool {
	return true
}
