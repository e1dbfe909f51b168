package bot

import "strings"

// Fixed replies for the paths that never reach the synthesizer. Arabic is the
// one non-English locale the shop serves with curated text; everything else
// gets English.

const apologyReply = "Sorry, we encountered an error. Please try again later."

func greetingReply(language string) string {
	if isArabic(language) {
		return "مرحباً! كيف يمكنني مساعدتك في البحث عن قطع الغيار اليوم؟"
	}
	return "Hello! How can I help you find car parts today?"
}

func chassisNotFoundReply(language string) string {
	if isArabic(language) {
		return "عذراً، لم نتمكن من العثور على معلومات السيارة لهذا الرقم. يرجى التحقق من الرقم والمحاولة مرة أخرى."
	}
	return "Sorry, we couldn't find vehicle information for this chassis number. Please verify the number and try again."
}

func isArabic(language string) bool {
	return strings.HasPrefix(strings.ToLower(language), "ar")
}
