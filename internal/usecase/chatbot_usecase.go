package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const chatbotHistoryLimit = 50

// chatbotRule matches when any keyword appears in the query. A trailing "*"
// makes the last word a prefix, so "thank*" also covers "thanks".
type chatbotRule struct {
	name     string
	keywords []string
	reply    string
}

// chatbotRules are tried in order; the first match wins.
var chatbotRules = []chatbotRule{
	{
		name:     "greeting",
		keywords: []string{"hello", "hi", "hey"},
		reply:    "Hello! How can I help you with your health today?",
	},
	{
		name:     "appointment",
		keywords: []string{"appointment*", "schedule*", "book*"},
		reply:    "To schedule an appointment, please go to the Appointments section or call our office.",
	},
	{
		name:     "headache",
		keywords: []string{"headache*", "head pain*"},
		reply:    "Headaches can be caused by various factors including stress, dehydration, or lack of sleep. If it's severe or persistent, please consult with a doctor.",
	},
	{
		name:     "fever",
		keywords: []string{"fever*", "temperature"},
		reply:    "A fever might indicate an infection. Rest, stay hydrated, and take over-the-counter fever reducers. If it persists over 3 days or exceeds 103°F (39.4°C), please seek medical attention.",
	},
	{
		name:     "cold",
		keywords: []string{"cold*", "flu", "cough*"},
		reply:    "For cold and flu symptoms, rest, stay hydrated, and consider over-the-counter medications for symptom relief. If symptoms worsen or persist, please consult with a doctor.",
	},
	{
		name:     "pain",
		keywords: []string{"pain*"},
		reply:    "Pain can have many causes. Could you describe where the pain is located and its severity? This will help me provide better guidance.",
	},
	{
		name:     "thanks",
		keywords: []string{"thank*"},
		reply:    "You're welcome! Is there anything else I can help you with?",
	},
}

const chatbotFallback = "I'm not sure I understand your question. Could you please rephrase or provide more details about your health concern?"

// chatbotReply returns the reply of the first matching rule, or the fallback.
func chatbotReply(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range chatbotRules {
		for _, keyword := range rule.keywords {
			if containsKeyword(words, strings.Fields(keyword)) {
				return rule.reply
			}
		}
	}
	return chatbotFallback
}

func containsKeyword(words, parts []string) bool {
	for i := 0; i+len(parts) <= len(words); i++ {
		if matchWords(words[i:i+len(parts)], parts) {
			return true
		}
	}
	return false
}

func matchWords(words, parts []string) bool {
	for j, part := range parts {
		if stem, ok := strings.CutSuffix(part, "*"); ok {
			if !strings.HasPrefix(words[j], stem) {
				return false
			}
		} else if words[j] != part {
			return false
		}
	}
	return true
}

type ChatbotUsecase interface {
	Query(ctx context.Context, actor entity.Actor, req *dto.ChatbotQueryRequest) (*dto.ChatbotResponse, error)
	GetHistory(ctx context.Context, actor entity.Actor) ([]dto.ChatbotResponse, error)
}

type chatbotUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	chatbotRepo repository.ChatbotLogRepository
	patientRepo repository.PatientRepository
	now         func() time.Time
}

func NewChatbotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatbotRepo repository.ChatbotLogRepository,
	patientRepo repository.PatientRepository,
) ChatbotUsecase {
	return &chatbotUsecase{
		db:          db,
		log:         log,
		chatbotRepo: chatbotRepo,
		patientRepo: patientRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Query answers with the rule-based reply and stores the exchange. The
// patient id is attached when the actor has a patient row.
func (u *chatbotUsecase) Query(ctx context.Context, actor entity.Actor, req *dto.ChatbotQueryRequest) (*dto.ChatbotResponse, error) {
	db := u.db.WithContext(ctx)

	entry := &entity.ChatbotLog{
		UserID:    actor.UserID,
		Symptoms:  req.Query,
		Response:  chatbotReply(req.Query),
		Timestamp: u.now(),
	}

	patient, err := u.patientRepo.FindByUserID(db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient by user: %+v", err)
		return nil, err
	}
	if patient != nil {
		entry.PatientID = &patient.ID
	}

	if err := u.chatbotRepo.Create(db, entry); err != nil {
		u.log.Warnf("Failed to store chatbot exchange: %+v", err)
		return nil, err
	}

	return &dto.ChatbotResponse{
		Query:     entry.Symptoms,
		Response:  entry.Response,
		Timestamp: entry.Timestamp,
	}, nil
}

func (u *chatbotUsecase) GetHistory(ctx context.Context, actor entity.Actor) ([]dto.ChatbotResponse, error) {
	logs, err := u.chatbotRepo.FindByUserID(u.db.WithContext(ctx), actor.UserID, chatbotHistoryLimit)
	if err != nil {
		u.log.Warnf("Failed to find chatbot history: %+v", err)
		return nil, err
	}
	return converter.ChatbotLogsToResponses(logs), nil
}
