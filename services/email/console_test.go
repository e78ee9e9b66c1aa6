package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	logsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/logger"
	testutil "github.com/iclaudiaadeline/Inzozi-Rwanda/tests"
)

func newMock(t *testing.T) *consoleServiceMock {
	t.Helper()
	conf := testutil.NewConfig()
	r, err := core.NewEmailRenderer(conf)
	require.NoError(t, err)
	return NewConsoleServiceMock(conf, r, logsvc.NewRollbarLogger(zap.NewNop(), conf))
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	svc := newMock(t)

	svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "Aline", Address: "aline@test.rw"}},
			Subject: "Hello",
			BodyStr: "hi there",
		},
		// dropped: no recipients
		&core.EmailMessage{Subject: "Nobody", BodyStr: "hi"},
		// dropped: unknown template
		&core.EmailMessage{To: []mail.Address{{Address: "x@test.rw"}}, TemplateName: "nope"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Hello", sent[0].Subject)
	assert.Equal(t, "hi there", sent[0].TextContent)
}

func TestConsoleService_format(t *testing.T) {
	svc := newMock(t)

	body, err := svc.format(core.EmailMessage{
		To:          []mail.Address{{Name: "Aline", Address: "aline@test.rw"}, {Address: "eric@test.rw"}},
		Cc:          []mail.Address{{Address: "cc@test.rw"}},
		Subject:     "Hello",
		TextContent: "hi there",
		HTMLContent: "<p>hi there</p>",
	})
	require.NoError(t, err)

	assert.Contains(t, body, `From: "INZOZI" <no-reply@inzozi.rw>`)
	assert.Contains(t, body, "Subject: [INZOZI] Hello\r\n")
	assert.Contains(t, body, `To: "Aline" <aline@test.rw>, <eric@test.rw>`)
	assert.Contains(t, body, "CC: <cc@test.rw>\r\n")
	assert.NotContains(t, body, "BCC:")
	assert.Equal(t, 1, strings.Count(body, "text/plain; charset=utf-8"))
	assert.Equal(t, 1, strings.Count(body, "text/html; charset=utf-8"))
	assert.Contains(t, body, "<p>hi there</p>")
}
