package mailservice

// Recipient заголовок получателя письма
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MailRequest запрос на отправку шаблонизированного письма
// Сервис почты сам рендерит шаблон и локализует тему по ключу
type MailRequest struct {
	Recipient  Recipient         `json:"recipient"`
	TemplateID string            `json:"templateId"`
	SubjectKey string            `json:"subjectKey"` // Ключ локализованной темы письма
	Locale     string            `json:"locale"`
	Timezone   string            `json:"timezone"`
	Params     map[string]string `json:"params"`
}
