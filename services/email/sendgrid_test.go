package emailsvc

import (
	"net/mail"
	"testing"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	logsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/logger"
	testutil "github.com/iclaudiaadeline/Inzozi-Rwanda/tests"
)

func Test_sendgridService_prepare(t *testing.T) {
	conf := testutil.NewConfig()
	conf.SendgridAPIKey = "SG.test"
	r, err := core.NewEmailRenderer(conf)
	require.NoError(t, err)
	svc := NewSendgridService(conf, r, logsvc.NewRollbarLogger(zap.NewNop(), conf))

	aline := mail.Address{Name: "Aline", Address: "aline@test.rw"}
	eric := mail.Address{Address: "eric@test.rw"}

	tests := []struct {
		name        string
		msg         core.EmailMessage
		wantTo      []*sgmail.Email
		wantCc      []*sgmail.Email
		wantBcc     []*sgmail.Email
		wantContent []*sgmail.Content
	}{
		{
			name:        "text only",
			msg:         core.EmailMessage{To: []mail.Address{aline}, Subject: "Hello", TextContent: "hi"},
			wantTo:      []*sgmail.Email{{Name: "Aline", Address: "aline@test.rw"}},
			wantContent: []*sgmail.Content{{Type: "text/plain", Value: "hi"}},
		},
		{
			name: "text and html",
			msg: core.EmailMessage{
				To:          []mail.Address{aline, eric},
				Cc:          []mail.Address{eric},
				Bcc:         []mail.Address{aline},
				Subject:     "Hello",
				TextContent: "hi",
				HTMLContent: "<p>hi</p>",
			},
			wantTo:  []*sgmail.Email{{Name: "Aline", Address: "aline@test.rw"}, {Address: "eric@test.rw"}},
			wantCc:  []*sgmail.Email{{Address: "eric@test.rw"}},
			wantBcc: []*sgmail.Email{{Name: "Aline", Address: "aline@test.rw"}},
			wantContent: []*sgmail.Content{
				{Type: "text/plain", Value: "hi"},
				{Type: "text/html", Value: "<p>hi</p>"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := svc.prepare(tt.msg)

			assert.Equal(t, &sgmail.Email{Name: "INZOZI", Address: "no-reply@inzozi.rw"}, m.From)
			require.Len(t, m.Personalizations, 1)
			p := m.Personalizations[0]
			assert.Equal(t, "[INZOZI] Hello", p.Subject)
			assert.ElementsMatch(t, tt.wantTo, p.To)
			assert.ElementsMatch(t, tt.wantCc, p.CC)
			assert.ElementsMatch(t, tt.wantBcc, p.BCC)
			assert.Equal(t, tt.wantContent, m.Content)
		})
	}
}
