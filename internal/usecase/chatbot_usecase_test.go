package usecase

import (
	"context"
	"testing"

	"medcare-api/internal/delivery/dto"
	gormrepo "medcare-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatbotReply(t *testing.T) {
	reply := func(name string) string {
		for _, r := range chatbotRules {
			if r.name == name {
				return r.reply
			}
		}
		t.Fatalf("unknown rule %q", name)
		return ""
	}

	tests := []struct {
		query string
		want  string
	}{
		{"Hello there", reply("greeting")},
		{"HEY!", reply("greeting")},
		{"I want to book a visit", reply("appointment")},
		{"Can I reschedule my Appointments?", reply("appointment")},
		{"I have a headache", reply("headache")},
		{"sharp head pain since morning", reply("headache")},
		{"high temperature tonight", reply("fever")},
		{"I think I caught the flu", reply("cold")},
		{"coughing all night", reply("cold")},
		{"my back is painful", reply("pain")},
		{"thanks a lot", reply("thanks")},
		{"this is about my chills", chatbotFallback},
		{"", chatbotFallback},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, chatbotReply(tt.query))
		})
	}
}

func TestChatbotRuleOrder(t *testing.T) {
	// greeting wins over every later rule
	assert.Equal(t, chatbotRules[0].reply, chatbotReply("hi, I have a fever and a headache"))
	// headache is checked before fever and pain
	assert.Equal(t, chatbotRules[2].reply, chatbotReply("fever with head pain"))
}

func TestChatbotQueryStoresHistory(t *testing.T) {
	f := newFixture(t)
	patientActor, patient := f.createPatient(t)
	uc := NewChatbotUsecase(f.db, f.log, gormrepo.NewChatbotLogRepository(), gormrepo.NewPatientRepository())
	ctx := context.Background()

	res, err := uc.Query(ctx, patientActor, &dto.ChatbotQueryRequest{Query: "I have a fever"})
	require.NoError(t, err)
	assert.Equal(t, chatbotRules[3].reply, res.Response)

	_, err = uc.Query(ctx, patientActor, &dto.ChatbotQueryRequest{Query: "thank you"})
	require.NoError(t, err)

	history, err := uc.GetHistory(ctx, patientActor)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "thank you", history[0].Query)

	logs, err := gormrepo.NewChatbotLogRepository().FindByUserID(f.db, patientActor.UserID, 10)
	require.NoError(t, err)
	require.NotNil(t, logs[0].PatientID)
	assert.Equal(t, patient.ID, *logs[0].PatientID)

	// admins have no patient row
	res, err = uc.Query(ctx, f.admin, &dto.ChatbotQueryRequest{Query: "hello"})
	require.NoError(t, err)
	assert.Equal(t, chatbotRules[0].reply, res.Response)
}
