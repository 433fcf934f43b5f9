// SPDX-License-Identifier: MIT

package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestBase(t *testing.T) {
	baseLogger := Base()
	if baseLogger.GetLevel() > zerolog.PanicLevel {
		t.Error("Expected valid base logger with reasonable log level")
	}
}

func TestDerive(t *testing.T) {
	buf := captureBase(t)

	l := Derive(nil)
	l.Info().Msg("nil builder")
	if decodeLine(t, buf)["message"] != "nil builder" {
		t.Error("Expected Derive(nil) to log through the base logger")
	}

	buf.Reset()
	l = Derive(func(ctx *zerolog.Context) {
		ctx.Str("custom_field", "test_value")
	})
	l.Info().Msg("custom")
	if decodeLine(t, buf)["custom_field"] != "test_value" {
		t.Error("Expected custom_field from Derive builder")
	}
}

func TestConfigure_OnlyOnce(t *testing.T) {
	buf := captureBase(t)

	// A second Configure without Reset must not replace the writer.
	Configure(Config{Service: "other"})
	l := Base()
	l.Info().Msg("x")

	if decodeLine(t, buf)[FieldService] != "test" {
		t.Error("Expected first configuration to stay in effect")
	}
}
