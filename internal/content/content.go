// Package content holds the static per-language copy the site and widget display.
package content

import "sgc-backend/internal/models"

type Widget struct {
	Title       string `json:"title"`
	Placeholder string `json:"placeholder"`
	Send        string `json:"send"`
	Disclaimer  string `json:"disclaimer"`
}

type ThankYou struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	BackHome string `json:"back_home"`
}

type Dictionary struct {
	Language models.Language `json:"language"`
	Widget   Widget          `json:"widget"`
	ThankYou ThankYou        `json:"thank_you"`
}

var dictionaries = map[models.Language]Dictionary{
	models.LanguageVietnamese: {
		Language: models.LanguageVietnamese,
		Widget: Widget{
			Title:       "Trợ lý AI SGC",
			Placeholder: "Hỏi về dịch vụ của chúng tôi...",
			Send:        "Gửi",
			Disclaimer:  "AI có thể mắc lỗi. Vui lòng liên hệ trực tiếp để được tư vấn chính xác.",
		},
		ThankYou: ThankYou{
			Title:    "Cảm ơn bạn!",
			Message:  "Chúng tôi đã nhận được yêu cầu và sẽ liên hệ lại trong vòng 24 giờ làm việc.",
			BackHome: "Về trang chủ",
		},
	},
	models.LanguageEnglish: {
		Language: models.LanguageEnglish,
		Widget: Widget{
			Title:       "SGC AI Assistant",
			Placeholder: "Ask about our services...",
			Send:        "Send",
			Disclaimer:  "AI can make mistakes. Please contact us directly for accurate advice.",
		},
		ThankYou: ThankYou{
			Title:    "Thank you!",
			Message:  "We have received your request and will get back to you within 24 business hours.",
			BackHome: "Back to home",
		},
	},
}

// For returns the dictionary for lang, falling back to the default language.
func For(lang models.Language) Dictionary {
	if d, ok := dictionaries[lang]; ok {
		return d
	}
	return dictionaries[models.DefaultLanguage]
}
