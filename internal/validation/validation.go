// Package validation содержит функции валидации входных данных.
package validation

import "strings"

// IsValidReminderTime проверяет время напоминания в формате "HH:MM" (24 часа).
func IsValidReminderTime(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}

	for _, i := range []int{0, 1, 3, 4} {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}

	hour := int(value[0]-'0')*10 + int(value[1]-'0')
	minute := int(value[3]-'0')*10 + int(value[4]-'0')

	return hour < 24 && minute < 60
}

// IsValidEmail выполняет минимальную структурную проверку адреса почты:
// непустые локальная часть и домен с точкой, без пробелов.
func IsValidEmail(value string) bool {
	at := strings.IndexByte(value, '@')
	if at <= 0 || at == len(value)-1 {
		return false
	}
	if strings.ContainsAny(value, " \t") {
		return false
	}

	domain := value[at+1:]
	dot := strings.IndexByte(domain, '.')

	return dot > 0 && dot < len(domain)-1 && strings.IndexByte(domain, '@') == -1
}
