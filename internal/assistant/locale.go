package assistant

import "sgc-backend/internal/models"

type phrasebook struct {
	greeting        string
	notConfigured   string
	fallback        string
	connectionError string
}

var phrases = map[models.Language]phrasebook{
	models.LanguageVietnamese: {
		greeting:        "Xin chào! Tôi là trợ lý AI của SGC. Tôi có thể giúp gì cho bạn về các dịch vụ công nghệ?",
		notConfigured:   "Khóa API chưa được cấu hình trong môi trường.",
		fallback:        "Xin lỗi, tôi không thể trả lời lúc này.",
		connectionError: "Đã xảy ra lỗi kết nối.",
	},
	models.LanguageEnglish: {
		greeting:        "Hello! I am SGC's AI Assistant. How can I help you with our tech services?",
		notConfigured:   "API Key not configured in environment.",
		fallback:        "Sorry, I cannot answer right now.",
		connectionError: "Connection error occurred.",
	},
}

func phrasesFor(lang models.Language) phrasebook {
	if p, ok := phrases[lang]; ok {
		return p
	}
	return phrases[models.DefaultLanguage]
}

func Greeting(lang models.Language) string             { return phrasesFor(lang).greeting }
func NotConfiguredReply(lang models.Language) string   { return phrasesFor(lang).notConfigured }
func FallbackReply(lang models.Language) string        { return phrasesFor(lang).fallback }
func ConnectionErrorReply(lang models.Language) string { return phrasesFor(lang).connectionError }
