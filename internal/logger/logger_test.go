package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestTransition_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	Transition(11, "pending_owner_approval", "pending_payment", 9)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Rental status changed", line["msg"])
	assert.Equal(t, float64(11), line["rental_id"])
	assert.Equal(t, "pending_owner_approval", line["from"])
	assert.Equal(t, "pending_payment", line["to"])
	assert.Equal(t, float64(9), line["actor_user_id"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "text")
	defer Initialize("info", "text")

	EnterMethod("svc.Op", "id", 1)
	DatabaseCall("SELECT", "rentals")
	assert.Empty(t, buf.String())

	DatabaseResult("UPDATE", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "Database call failed")
	assert.Contains(t, buf.String(), "boom")
}
