package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("adds credential id from context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(newHandler(&buf, Config{Level: slog.LevelInfo}), CredentialID))

		log.InfoContext(WithCredentialID(context.Background(), "urn:li:person:42"), "stored")
		rec := decode(t, &buf)
		require.Equal(t, "stored", rec["msg"])
		require.Equal(t, "urn:li:person:42", rec["credential_id"])
	})

	t.Run("skips missing values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(newHandler(&buf, Config{}), CredentialID, nil))

		log.InfoContext(WithCredentialID(context.Background(), ""), "anonymous")
		rec := decode(t, &buf)
		require.NotContains(t, rec, "credential_id")
	})

	t.Run("string value extractor", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		get := func(ctx context.Context) string {
			v, _ := ctx.Value(key{}).(string)
			return v
		}

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(newHandler(&buf, Config{}), StringValue("request_id", get)))
		log.With(slog.String("component", "server")).InfoContext(context.WithValue(context.Background(), key{}, "req-1"), "hello")

		rec := decode(t, &buf)
		require.Equal(t, "req-1", rec["request_id"])
		require.Equal(t, "server", rec["component"])
	})

	t.Run("groups keep extractors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(newHandler(&buf, Config{}), CredentialID))
		log.WithGroup("linkedin").InfoContext(WithCredentialID(context.Background(), "id"), "grouped")

		rec := decode(t, &buf)
		group, ok := rec["linkedin"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "id", group["credential_id"])
	})
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		slog.New(newHandler(&buf, Config{Format: "text"})).Info("plain")
		require.True(t, strings.Contains(buf.String(), "msg=plain"))
	})

	t.Run("level filter", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(newHandler(&buf, Config{Level: slog.LevelWarn}))
		log.Info("dropped")
		require.Zero(t, buf.Len())
		log.Warn("kept")
		require.NotZero(t, buf.Len())
	})
}

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	h := newMultiHandler(newHandler(&a, Config{Level: slog.LevelInfo}), newHandler(&b, Config{Level: slog.LevelError}))
	log := slog.New(h)

	log.Info("info")
	require.NotZero(t, a.Len())
	require.Zero(t, b.Len())

	log.Error("error")
	require.Contains(t, b.String(), `"msg":"error"`)
}

func TestNewWithSentry_WithoutDSN(t *testing.T) {
	t.Parallel()

	require.NotNil(t, NewWithSentry(Config{}, SentryConfig{}))
	require.NotNil(t, NewNope())
}
