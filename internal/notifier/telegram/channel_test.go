package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
)

type fakeBot struct {
	sent []string
	to   []tele.Recipient
	opts []*tele.SendOptions
	err  error
}

func (f *fakeBot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, what.(string))
	if len(opts) > 0 {
		f.opts = append(f.opts, opts[0].(*tele.SendOptions))
	}
	return &tele.Message{}, nil
}

func snapshot(members string) status.Snapshot {
	st := "Synced"
	return status.NewBuilder("db1").Status(&st).Members(&members).Build()
}

func TestNotifySendsReport(t *testing.T) {
	fb := &fakeBot{}
	ch, err := New(Config{ChatID: -100123, ThreadID: 7}, withPoster(fb))
	require.NoError(t, err)

	snap := snapshot("a,b")
	require.NoError(t, ch.Notify(context.Background(), snap))

	require.Len(t, fb.sent, 1)
	assert.Equal(t, snap.Render(), fb.sent[0])
	assert.Equal(t, "-100123", fb.to[0].Recipient())
	assert.Equal(t, 7, fb.opts[0].ThreadID)
	assert.Equal(t, "telegram", ch.Name())
}

func TestNotifySkipsEmptySnapshot(t *testing.T) {
	fb := &fakeBot{}
	ch, err := New(Config{ChatID: 1}, withPoster(fb))
	require.NoError(t, err)

	assert.ErrorIs(t, ch.Notify(context.Background(), status.NewBuilder("db1").Build()), notifier.ErrSkipped)
	assert.Empty(t, fb.sent)
}

func TestNotifyWrapsSendErrors(t *testing.T) {
	ch, err := New(Config{ChatID: 1}, withPoster(&fakeBot{err: errors.New("chat not found")}))
	require.NoError(t, err)

	err = ch.Notify(context.Background(), snapshot("a"))
	var de *notifier.DeliveryError
	require.ErrorAs(t, err, &de)
	assert.ErrorContains(t, err, "chat not found")
}

func TestNotifySplitsLongReports(t *testing.T) {
	fb := &fakeBot{}
	ch, err := New(Config{ChatID: 1, RatePerSec: 1000}, withPoster(fb))
	require.NoError(t, err)

	members := make([]string, 600)
	for i := range members {
		members[i] = strings.Repeat("m", 12)
	}
	require.NoError(t, ch.Notify(context.Background(), snapshot(strings.Join(members, ","))))

	require.Greater(t, len(fb.sent), 1)
	for _, part := range fb.sent {
		assert.LessOrEqual(t, len([]rune(part)), textLimit)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Token: "x"})
	assert.ErrorIs(t, err, notifier.ErrConfig)

	_, err = New(Config{ChatID: 1})
	var ce *notifier.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "token", ce.Field)
}

func TestNewBuildsOfflineBot(t *testing.T) {
	ch, err := New(Config{ChatID: 1, Token: "123:abc"})
	require.NoError(t, err)
	assert.NotNil(t, ch.bot)
}

func TestSplitTextPrefersNewlines(t *testing.T) {
	line := strings.Repeat("x", 30)
	text := strings.Repeat(line+"\n", 10)

	parts := splitText(text, 100)
	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 100)
		assert.False(t, strings.HasPrefix(p, "\n"))
		assert.False(t, strings.HasSuffix(p, "\n"))
	}
	assert.Equal(t, []string{"short"}, splitText("short", 100))
}
